// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
//   - UserService: registration, login and logout, profile updates, account
//     deletion and avatar management.
//   - TaskService: owner-scoped task CRUD and listing.
//
// Services receive their dependencies through constructor injection and
// depend only on store interfaces, never on a concrete database. Password
// hashing and the removal of a deleted user's tasks are explicit steps here
// rather than side effects of the store.
package service
