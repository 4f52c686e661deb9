package main

import (
	"github.com/luckyfive/lottery-backend/config"
	"github.com/luckyfive/lottery-backend/utils/logger"
)

func main() {
	db := config.SetupDatabase() // connects + migrates
	_ = db
	logger.Info("Database migration completed successfully")
}
