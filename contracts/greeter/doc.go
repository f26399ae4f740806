// Package greeter implements stateless contract returning greetings.
package greeter
