package costing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository/mocks"
	"github.com/xixoi/ads-autopilot-api/internal/config"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestComputeProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsageRepo := mocks.NewMockUsageRepository(ctrl)

	service := &Service{
		usageRepo: mockUsageRepo,
		ceilings: config.CostCeilings{
			Free:       5,
			Quickstart: 20,
			Pro:        100,
			Elite:      300,
			Agency:     1000,
		},
	}

	tests := []struct {
		name           string
		tier           domain.Tier
		llmCost        float64
		infraCost      float64
		expectedStatus domain.CostStatus
		expectedMargin float64
	}{
		{
			name:           "gasto acima do teto vira exceeded",
			tier:           domain.TierPro,
			llmCost:        95,
			infraCost:      6,
			expectedStatus: domain.CostStatusExceeded,
			expectedMargin: -0.01,
		},
		{
			name:           "margem abaixo de 5% vira blocked",
			tier:           domain.TierPro,
			llmCost:        90,
			infraCost:      7,
			expectedStatus: domain.CostStatusBlocked,
			expectedMargin: 0.03,
		},
		{
			name:           "margem abaixo de 10% vira critical",
			tier:           domain.TierPro,
			llmCost:        92,
			infraCost:      0,
			expectedStatus: domain.CostStatusCritical,
			expectedMargin: 0.08,
		},
		{
			name:           "margem abaixo de 20% vira warning",
			tier:           domain.TierPro,
			llmCost:        80,
			infraCost:      5,
			expectedStatus: domain.CostStatusWarning,
			expectedMargin: 0.15,
		},
		{
			name:           "margem folgada vira healthy",
			tier:           domain.TierPro,
			llmCost:        40,
			infraCost:      10,
			expectedStatus: domain.CostStatusHealthy,
			expectedMargin: 0.50,
		},
		{
			name:           "teto do tier agency é mais alto",
			tier:           domain.TierAgency,
			llmCost:        500,
			infraCost:      0,
			expectedStatus: domain.CostStatusHealthy,
			expectedMargin: 0.50,
		},
		{
			name:           "tier desconhecido cai no teto do free",
			tier:           domain.Tier("enterprise"),
			llmCost:        4.8,
			infraCost:      0,
			expectedStatus: domain.CostStatusBlocked,
			expectedMargin: 0.04,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsageRepo.EXPECT().
				SumSince(10, gomock.Any()).
				Return(&domain.MonthlyUsage{
					UserID:    10,
					LLMCost:   tt.llmCost,
					InfraCost: tt.infraCost,
				}, nil)

			profile, err := service.ComputeProfile(10, tt.tier)

			assert.NoError(t, err)
			assert.Equal(t, 10, profile.UserID)
			assert.Equal(t, tt.tier, profile.Tier)
			assert.Equal(t, tt.expectedStatus, profile.Status)
			assert.InDelta(t, tt.expectedMargin, profile.MarginPercentage, 0.0001)
			assert.InDelta(t, tt.llmCost+tt.infraCost, profile.TotalCost, 0.0001)
		})
	}
}

func TestComputeProfileQueriesCurrentMonthOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsageRepo := mocks.NewMockUsageRepository(ctrl)

	service := &Service{
		usageRepo: mockUsageRepo,
		ceilings:  config.CostCeilings{Pro: 100},
	}

	var since time.Time
	mockUsageRepo.EXPECT().
		SumSince(10, gomock.Any()).
		DoAndReturn(func(userID int, from time.Time) (*domain.MonthlyUsage, error) {
			since = from
			return &domain.MonthlyUsage{UserID: userID}, nil
		})

	_, err := service.ComputeProfile(10, domain.TierPro)
	assert.NoError(t, err)

	now := time.Now().UTC()
	assert.Equal(t, now.Year(), since.Year())
	assert.Equal(t, now.Month(), since.Month())
	assert.Equal(t, 1, since.Day())
	assert.Equal(t, 0, since.Hour())
	assert.Equal(t, time.UTC, since.Location())
}

func TestComputeProfileDatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsageRepo := mocks.NewMockUsageRepository(ctrl)

	service := &Service{
		usageRepo: mockUsageRepo,
		ceilings:  config.CostCeilings{Pro: 100},
	}

	mockUsageRepo.EXPECT().
		SumSince(10, gomock.Any()).
		Return(nil, errors.New("connection refused"))

	profile, err := service.ComputeProfile(10, domain.TierPro)

	assert.ErrorIs(t, err, ErrDatabaseOperation)
	assert.Nil(t, profile)
}

func TestRecordUsage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsageRepo := mocks.NewMockUsageRepository(ctrl)

	service := &Service{
		usageRepo: mockUsageRepo,
		ceilings:  config.CostCeilings{},
	}

	runID := "r4nd01"

	var inserted *domain.UsageEvent
	mockUsageRepo.EXPECT().
		Insert(gomock.Any()).
		DoAndReturn(func(event *domain.UsageEvent) error {
			inserted = event
			return nil
		})

	err := service.RecordUsage(10, &runID, 0.04, 0.01)

	assert.NoError(t, err)
	assert.NotEmpty(t, inserted.ID)
	assert.Equal(t, 10, inserted.UserID)
	assert.Equal(t, &runID, inserted.RunID)
	assert.InDelta(t, 0.04, inserted.LLMCost, 0.0001)
	assert.InDelta(t, 0.01, inserted.InfraCost, 0.0001)
	assert.False(t, inserted.OccurredAt.IsZero())
}

func TestRecordUsageDatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsageRepo := mocks.NewMockUsageRepository(ctrl)

	service := &Service{
		usageRepo: mockUsageRepo,
		ceilings:  config.CostCeilings{},
	}

	mockUsageRepo.EXPECT().
		Insert(gomock.Any()).
		Return(errors.New("connection refused"))

	err := service.RecordUsage(10, nil, 0.04, 0)

	assert.ErrorIs(t, err, ErrDatabaseOperation)
}
