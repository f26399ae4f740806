package greeter

const (
	greeting = "Hello"
	version  = 1
)

// Hello returns greeting followed by the given name.
func Hello(to string) []string {
	return []string{greeting, to}
}

// Greet returns greeting.
func Greet(name string) string {
	return greeting
}

// Version returns the version of the contract.
func Version() int {
	return version
}
