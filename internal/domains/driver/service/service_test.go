package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	otelMocks "github.com/alhamw/vehicle-booking-system-sub000/infras/otel/mocks"
	driverMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/driver/mocks"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/driver/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/driver/service"
	cacheMocks "github.com/alhamw/vehicle-booking-system-sub000/shared/cache/mocks"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

func newDriverFixture(t *testing.T) (*driverMocks.MockDriver, *cacheMocks.MockRedisCache, service.Driver) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := driverMocks.NewMockDriver(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(repo, &config.Config{}, cache, otelMocks.NewOtel())

	return repo, cache, svc
}

func TestDriverService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, cache, svc := newDriverFixture(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Driver{
			ID:            "driver-1",
			Name:          "Pat Driver",
			LicenseNumber: "B 1234 XYZ",
			Status:        model.StatusActive,
		}, nil)

		res, err := svc.Get(context.Background(), "driver-1")

		assert.NoError(t, err)
		assert.Equal(t, "Pat Driver", res.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo, cache, svc := newDriverFixture(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Driver{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}

func TestDriverService_GetAll(t *testing.T) {
	t.Run("lists from repository on cache miss", func(t *testing.T) {
		repo, cache, svc := newDriverFixture(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
		repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Driver{
			{ID: "driver-1", Status: model.StatusActive},
			{ID: "driver-2", Status: model.StatusInactive},
		}, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Drivers, 2)
		assert.Equal(t, 2, res.TotalData)
	})
}
