package templates

type LoginData struct {
	Email string
	Error string
}

// ProjectSelectData lists nothing on its own; the remote API has no project
// listing endpoint, so the user enters the project id.
type ProjectSelectData struct {
	CurrentProject string
}
