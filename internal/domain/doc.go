// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, their tasks, the update allowlists
// that guard both, and the parameters of a task listing query. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
