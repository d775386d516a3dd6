// Package overdueloans lists an owner's active loans that are past their due date.
package overdueloans
