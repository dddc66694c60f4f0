package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the user and task endpoints on r. authenticate guards
// every route except registration, login and the public avatar fetch.
func RegisterRoutes(
	r chi.Router,
	users *UserHandler,
	tasks *TaskHandler,
	authenticate func(http.Handler) http.Handler,
) {
	r.Post("/users", users.Register)
	r.Post("/users/login", users.Login)
	r.Get("/users/{id}/avatar", users.GetAvatar)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/users/logout", users.Logout)
		r.Post("/users/logoutAll", users.LogoutAll)
		r.Get("/users/me", users.GetMe)
		r.Patch("/users/me", users.UpdateMe)
		r.Delete("/users/me", users.DeleteMe)
		r.Post("/users/me/avatar", users.UploadAvatar)
		r.Delete("/users/me/avatar", users.DeleteAvatar)

		r.Post("/tasks", tasks.CreateTask)
		r.Get("/tasks", tasks.ListTasks)
		r.Get("/tasks/{id}", tasks.GetTask)
		r.Patch("/tasks/{id}", tasks.UpdateTask)
		r.Delete("/tasks/{id}", tasks.DeleteTask)
	})
}
