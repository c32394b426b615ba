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
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/mocks"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/model/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/service"
	cacheMocks "github.com/alhamw/vehicle-booking-system-sub000/shared/cache/mocks"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

func TestVehicleService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockVehicle(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	req := dto.CreateVehicleRequest{
		PlateNumber: "B 1234 XYZ",
		Make:        "Toyota",
		Model:       "Avanza",
		Year:        2022,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful create",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "duplicate plate number",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "repository failure",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(ctx, req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.IsCode(err, tt.wantCode))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestVehicleService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockVehicle(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	t.Run("vehicle not found", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Vehicle{}, nil)

		_, err := svc.Get(context.Background(), "missing-id")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})

	t.Run("vehicle found", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Vehicle{
			ID:          "vehicle-1",
			PlateNumber: "B 1234 XYZ",
			Status:      model.StatusAvailable,
		}, nil)

		res, err := svc.Get(context.Background(), "vehicle-1")

		assert.NoError(t, err)
		assert.Equal(t, "vehicle-1", res.ID)
		assert.Equal(t, model.StatusAvailable, res.Status)
	})
}

func TestVehicleService_StatusSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockVehicle(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	ctx := context.Background()

	t.Run("mark in use flips available vehicle", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Vehicle{ID: "vehicle-1", Status: model.StatusAvailable}, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusInUse, fields[model.FieldStatus])

				return nil
			})

		svc.MarkInUse(ctx, "vehicle-1")
	})

	t.Run("mark in use skips vehicle in maintenance", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Vehicle{ID: "vehicle-1", Status: model.StatusMaintenance}, nil)

		svc.MarkInUse(ctx, "vehicle-1")
	})

	t.Run("release flips vehicle in use", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Vehicle{ID: "vehicle-1", Status: model.StatusInUse}, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusAvailable, fields[model.FieldStatus])

				return nil
			})

		svc.Release(ctx, "vehicle-1")
	})

	t.Run("release never touches available vehicle", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Vehicle{ID: "vehicle-1", Status: model.StatusAvailable}, nil)

		svc.Release(ctx, "vehicle-1")
	})

	t.Run("lookup failure degrades silently", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Vehicle{}, errors.New("db down"))

		svc.Release(ctx, "vehicle-1")
	})
}
