package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/apperrors"
	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	portssvc "github.com/rtmsys/weighbridge_app/internal/core/ports/services"
	"github.com/rtmsys/weighbridge_app/internal/core/services"
	"github.com/rtmsys/weighbridge_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock WeighingRepository ---
type MockWeighingRepository struct {
	mock.Mock
}

func (m *MockWeighingRepository) FindPendingByPlate(ctx context.Context, plateNumber string) (*domain.Transaction, error) {
	args := m.Called(ctx, plateNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockWeighingRepository) FindByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockWeighingRepository) ListByDateRange(ctx context.Context, from, to time.Time, goodsType string) ([]domain.Transaction, error) {
	args := m.Called(ctx, from, to, goodsType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockWeighingRepository) PeekNextTransactionID(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

func (m *MockWeighingRepository) NextTransactionID(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

func (m *MockWeighingRepository) CreateFirstWeigh(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockWeighingRepository) CompleteSecondWeigh(ctx context.Context, transactionID string, secondWeighKg float64, netWeighKg float64, remark string, at time.Time) (bool, error) {
	args := m.Called(ctx, transactionID, secondWeighKg, netWeighKg, remark, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockWeighingRepository) DeleteByID(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite ---
type WeighingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockWeighingRepository
	service  portssvc.WeighingSvcFacade
}

func (suite *WeighingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockWeighingRepository)
	suite.service = services.NewWeighingService(suite.mockRepo)
}

func stableRequest(plate string, kg float64) dto.WeighRequest {
	return dto.WeighRequest{
		PlateNumber: plate,
		WeightKg:    kg,
		Stable:      true,
	}
}

// --- Test Cases ---

func (suite *WeighingServiceTestSuite) TestOpenOrClose_OpensWhenNoPending() {
	ctx := context.Background()
	req := stableRequest("KA-01-1234", 12500)
	req.GoodsType = "Cement"
	req.DriverName = "R. Kumar"

	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-01-1234").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("NextTransactionID", ctx, mock.AnythingOfType("time.Time")).Return("W2609010001", nil).Once()
	suite.mockRepo.On("CreateFirstWeigh", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionID == "W2609010001" &&
			txn.PlateNumber == "KA-01-1234" &&
			txn.GoodsType == "Cement" &&
			txn.FirstWeighKg == 12500 &&
			txn.Status == domain.StatusPending &&
			txn.SecondWeighKg == nil
	})).Return(nil).Once()

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(result.Opened)
	suite.Equal(12500.0, result.GrossKg)
	suite.Equal("W2609010001", result.Transaction.TransactionID)
	suite.Equal(domain.StatusPending, result.Transaction.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_ClosesPendingTransaction() {
	ctx := context.Background()
	pending := &domain.Transaction{
		TransactionID: "W2609010001",
		PlateNumber:   "KA-01-1234",
		FirstWeighKg:  12500,
		FirstWeighAt:  time.Now().Add(-time.Hour),
		Status:        domain.StatusPending,
	}
	req := stableRequest("KA-01-1234", 8000)

	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-01-1234").Return(pending, nil).Once()
	suite.mockRepo.On("CompleteSecondWeigh", ctx, "W2609010001", 8000.0, 4500.0, "", mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.False(result.Opened)
	suite.Equal(12500.0, result.GrossKg)
	suite.Equal(8000.0, result.TareKg)
	suite.Equal(4500.0, result.NetKg)
	suite.Equal(4500.0, result.FinalNetKg)
	suite.Equal(domain.StatusCompleted, result.Transaction.Status)
	suite.Require().NotNil(result.Transaction.NetWeighKg)
	suite.Equal(4500.0, *result.Transaction.NetWeighKg)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_SecondHeavierThanFirst() {
	ctx := context.Background()
	pending := &domain.Transaction{
		TransactionID: "W2609010002",
		PlateNumber:   "KA-02-9999",
		FirstWeighKg:  8000,
		Status:        domain.StatusPending,
	}
	req := stableRequest("KA-02-9999", 12500)

	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-02-9999").Return(pending, nil).Once()
	suite.mockRepo.On("CompleteSecondWeigh", ctx, "W2609010002", 12500.0, 4500.0, "", mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().NoError(err)
	// Gross and tare are reported by magnitude, not by weigh order.
	suite.Equal(12500.0, result.GrossKg)
	suite.Equal(8000.0, result.TareKg)
	suite.Equal(4500.0, result.NetKg)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_DeductionReducesNetAndAnnotatesRemark() {
	ctx := context.Background()
	pending := &domain.Transaction{
		TransactionID: "W2609010003",
		PlateNumber:   "KA-03-0001",
		FirstWeighKg:  12500,
		Status:        domain.StatusPending,
	}
	req := stableRequest("KA-03-0001", 8000)
	req.DeductionKg = 50
	req.Remark = "wet load"

	wantRemark := "(Deduction : 50.00 KG.) wet load"
	suite.mockRepo.On("CompleteSecondWeigh", ctx, "W2609010003", 8000.0, 4450.0, wantRemark, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-03-0001").Return(pending, nil).Once()

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(4500.0, result.NetKg)
	suite.Equal(4450.0, result.FinalNetKg)
	suite.Equal(wantRemark, result.Transaction.Remark)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_LargeDeductionRemarkIsGrouped() {
	ctx := context.Background()
	pending := &domain.Transaction{
		TransactionID: "W2609010008",
		PlateNumber:   "KA-08-0001",
		FirstWeighKg:  12500,
		Status:        domain.StatusPending,
	}
	req := stableRequest("KA-08-0001", 8000)
	req.DeductionKg = 1250

	wantRemark := "(Deduction : 1,250.00 KG.)"
	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-08-0001").Return(pending, nil).Once()
	suite.mockRepo.On("CompleteSecondWeigh", ctx, "W2609010008", 8000.0, 3250.0, wantRemark, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(3250.0, result.FinalNetKg)
	suite.Equal(wantRemark, result.Transaction.Remark)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_OverDeductionGoesNegative() {
	ctx := context.Background()
	pending := &domain.Transaction{
		TransactionID: "W2609010004",
		PlateNumber:   "KA-04-0001",
		FirstWeighKg:  8100,
		Status:        domain.StatusPending,
	}
	req := stableRequest("KA-04-0001", 8000)
	req.DeductionKg = 150

	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-04-0001").Return(pending, nil).Once()
	suite.mockRepo.On("CompleteSecondWeigh", ctx, "W2609010004", 8000.0, -50.0, "(Deduction : 150.00 KG.)", mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(100.0, result.NetKg)
	suite.Equal(-50.0, result.FinalNetKg)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_AlreadyCompletedUnderneath() {
	ctx := context.Background()
	pending := &domain.Transaction{
		TransactionID: "W2609010005",
		PlateNumber:   "KA-05-0001",
		FirstWeighKg:  12500,
		Status:        domain.StatusPending,
	}
	req := stableRequest("KA-05-0001", 8000)

	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-05-0001").Return(pending, nil).Once()
	suite.mockRepo.On("CompleteSecondWeigh", ctx, "W2609010005", 8000.0, 4500.0, "", mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotPending)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_EmptyPlateRejected() {
	ctx := context.Background()
	req := stableRequest("   ", 12500)

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindPendingByPlate", mock.Anything, mock.Anything)
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_UnstableReadingRejected() {
	ctx := context.Background()
	req := stableRequest("KA-01-1234", 12500)
	req.Stable = false

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotStable)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindPendingByPlate", mock.Anything, mock.Anything)
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_NegativeDeductionRejected() {
	ctx := context.Background()
	req := stableRequest("KA-01-1234", 12500)
	req.DeductionKg = -5

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_LookupErrorPropagates() {
	ctx := context.Background()
	req := stableRequest("KA-01-1234", 12500)
	expectedErr := assert.AnError

	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-01-1234").Return(nil, expectedErr).Once()

	result, err := suite.service.OpenOrClose(ctx, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestOpenOrClose_ObserversNotified() {
	ctx := context.Background()
	req := stableRequest("KA-06-0001", 12500)

	var opened []string
	weighingSvc := services.NewWeighingService(suite.mockRepo)
	weighingSvc.OnTransactionOpened(func(txn domain.Transaction) {
		opened = append(opened, txn.TransactionID)
	})

	suite.mockRepo.On("FindPendingByPlate", ctx, "KA-06-0001").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("NextTransactionID", ctx, mock.AnythingOfType("time.Time")).Return("W2609010006", nil).Once()
	suite.mockRepo.On("CreateFirstWeigh", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	_, err := weighingSvc.OpenOrClose(ctx, req)

	suite.Require().NoError(err)
	suite.Equal([]string{"W2609010006"}, opened)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	expected := &domain.Transaction{TransactionID: "W2609010001"}

	suite.mockRepo.On("FindByID", ctx, "W2609010001").Return(expected, nil).Once()

	txn, err := suite.service.GetByID(ctx, "W2609010001")

	suite.Require().NoError(err)
	suite.Equal(expected, txn)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindByID", ctx, "W0000000000").Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.GetByID(ctx, "W0000000000")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestListByDateRange_Success() {
	ctx := context.Background()
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	expected := []domain.Transaction{{TransactionID: "W2609010001"}}

	suite.mockRepo.On("ListByDateRange", ctx, from, to, "Cement").Return(expected, nil).Once()

	txns, err := suite.service.ListByDateRange(ctx, from, to, " Cement ")

	suite.Require().NoError(err)
	suite.Equal(expected, txns)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestListByDateRange_InvertedRangeRejected() {
	ctx := context.Background()
	from := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)

	txns, err := suite.service.ListByDateRange(ctx, from, to, "")

	suite.Require().Error(err)
	suite.Nil(txns)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListByDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WeighingServiceTestSuite) TestListByDateRange_NilBecomesEmptySlice() {
	ctx := context.Background()
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	var none []domain.Transaction

	suite.mockRepo.On("ListByDateRange", ctx, from, from, "").Return(none, nil).Once()

	txns, err := suite.service.ListByDateRange(ctx, from, from, "")

	suite.Require().NoError(err)
	suite.NotNil(txns)
	suite.Empty(txns)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestDeleteByID_Success() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteByID", ctx, "W2609010001").Return(true, nil).Once()

	err := suite.service.DeleteByID(ctx, "W2609010001")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestDeleteByID_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteByID", ctx, "W0000000000").Return(false, nil).Once()

	err := suite.service.DeleteByID(ctx, "W0000000000")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WeighingServiceTestSuite) TestNextTransactionID_Preview() {
	ctx := context.Background()

	suite.mockRepo.On("PeekNextTransactionID", ctx, mock.AnythingOfType("time.Time")).Return("W2609010007", nil).Once()

	id, err := suite.service.NextTransactionID(ctx)

	suite.Require().NoError(err)
	suite.Equal("W2609010007", id)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestWeighingService(t *testing.T) {
	suite.Run(t, new(WeighingServiceTestSuite))
}
