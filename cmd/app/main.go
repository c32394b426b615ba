package main

import (
	"github.com/alhamw/vehicle-booking-system-sub000/config"
	"github.com/alhamw/vehicle-booking-system-sub000/di"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
