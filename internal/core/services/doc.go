// Package services contains the core business logic implementations.
// Services implement the driving port interfaces and depend on driven
// port interfaces for infrastructure concerns, keeping the core free
// of transport and storage details.
package services
