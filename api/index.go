package handler

import (
	"net/http"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	"github.com/alhamw/vehicle-booking-system-sub000/di"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	handler := di.InitializeService()
	handler.ServeHTTP(w, r)
}
