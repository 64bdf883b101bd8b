package main

import (
	"os"

	_ "notify-triggers/docs"
	"notify-triggers/internal/app"
)

// @title Notification Trigger API
// @version 1.0
// @description Validates, previews, exports and hands off notification trigger configurations.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
