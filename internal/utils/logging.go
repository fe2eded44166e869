package utils

import (
	"go.uber.org/zap"
)

// NewLogger returns a development logger for the development environment
// and a production logger otherwise.
func NewLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
