package core

// Logger logs messages and errors. args may hold errors, extra data maps or a Person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the authenticated operator behind a logged event.
type Person struct {
	ID       string
	Username string
	Email    string
}
