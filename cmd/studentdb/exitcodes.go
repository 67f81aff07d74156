package main

// Exit codes. A lookup that matches nothing is not an error and exits 0.
const (
	ExitSuccess            = 0 // Success, including "no matched record"
	ExitError              = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError        = 2 // Configuration error (malformed config file or .env)
	ExitDataError          = 3 // Data error (field validation failure, unreadable import file)
	ExitConstraint         = 4 // Insert collided with an existing id
	ExitStorageUnavailable = 5 // Database file cannot be opened or written
	ExitTableNotFound      = 6 // Student table missing; run --init first
)
