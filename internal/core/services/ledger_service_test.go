package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
	portssvc "github.com/goldshop-erp/ledger_engine/internal/core/ports/services"
	"github.com/goldshop-erp/ledger_engine/internal/core/services"
	"github.com/goldshop-erp/ledger_engine/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	args := m.Called(ctx, accountID, delta)
	return args.Error(0)
}

// MockPostingRepository is a mock type for the PostingRepositoryFacade interface
type MockPostingRepository struct {
	mock.Mock
}

func (m *MockPostingRepository) SavePosting(ctx context.Context, posting domain.Posting, delta decimal.Decimal) error {
	args := m.Called(ctx, posting, delta)
	return args.Error(0)
}

func (m *MockPostingRepository) FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error) {
	args := m.Called(ctx, postingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Posting), args.Error(1)
}

func (m *MockPostingRepository) ListPostingsByAccountID(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}

func (m *MockPostingRepository) MarkPostingReversed(ctx context.Context, postingID string, delta decimal.Decimal, deletedBy string, now time.Time) error {
	args := m.Called(ctx, postingID, delta, deletedBy, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockPostingRepo *MockPostingRepository
	service         portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPostingRepo = new(MockPostingRepository)
	suite.service = services.NewLedgerService(suite.mockAccountRepo, suite.mockPostingRepo)
}

func decimalEq(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(got decimal.Decimal) bool {
		return want.Equal(got)
	})
}

func activeAccount(accountType domain.AccountType, balance decimal.Decimal) *domain.Account {
	return &domain.Account{
		AccountID:      uuid.NewString(),
		Name:           "Test " + string(accountType),
		AccountType:    accountType,
		OpeningBalance: decimal.Zero,
		Balance:        balance,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now(),
			CreatedBy: "tester",
		},
	}
}

// --- CreateAccount ---

func (suite *LedgerServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:           "Cash",
		AccountType:    "asset", // lower case input is normalized
		OpeningBalance: decimal.NewFromInt(500),
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(domain.Asset, created.AccountType)
	suite.True(created.Balance.Equal(decimal.NewFromInt(500)))
	suite.True(created.OpeningBalance.Equal(decimal.NewFromInt(500)))
	suite.False(created.IsDeleted)
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Vault",
		AccountType: "vault",
	}

	created, err := suite.service.CreateAccount(ctx, req, "tester")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidAccountType)
	suite.Nil(created)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateAccount_MissingName() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{AccountType: "asset"}

	created, err := suite.service.CreateAccount(ctx, req, "tester")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

// --- ApplyPosting ---

func (suite *LedgerServiceTestSuite) TestApplyPosting_DebitToAsset() {
	ctx := context.Background()
	account := activeAccount(domain.Asset, decimal.Zero)
	amount := decimal.NewFromInt(100)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	// Debit to an asset account must produce a positive delta.
	suite.mockPostingRepo.On("SavePosting", ctx, mock.AnythingOfType("domain.Posting"), decimalEq(amount)).Return(nil).Once()

	posting, err := suite.service.ApplyPosting(ctx, dto.CreatePostingRequest{
		AccountID: account.AccountID,
		Direction: "debit",
		Amount:    amount,
		Category:  "Opening stock",
	}, "tester")

	suite.Require().NoError(err)
	suite.Require().NotNil(posting)
	suite.Equal(domain.Debit, posting.Direction)
	suite.Equal(account.AccountID, posting.AccountID)
	suite.Equal(domain.Active, posting.Status())

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestApplyPosting_DebitToLiabilityIsNegative() {
	ctx := context.Background()
	account := activeAccount(domain.Liability, decimal.Zero)
	amount := decimal.NewFromInt(50)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockPostingRepo.On("SavePosting", ctx, mock.AnythingOfType("domain.Posting"), decimalEq(amount.Neg())).Return(nil).Once()

	_, err := suite.service.ApplyPosting(ctx, dto.CreatePostingRequest{
		AccountID: account.AccountID,
		Direction: "DEBIT",
		Amount:    amount,
	}, "tester")

	suite.Require().NoError(err)
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestApplyPosting_AccountNotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrAccountNotFound).Once()

	_, err := suite.service.ApplyPosting(ctx, dto.CreatePostingRequest{
		AccountID: accountID,
		Direction: "credit",
		Amount:    decimal.NewFromInt(10),
	}, "tester")

	suite.Require().ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestApplyPosting_AccountInactive() {
	ctx := context.Background()
	account := activeAccount(domain.Asset, decimal.Zero)
	account.IsDeleted = true

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.ApplyPosting(ctx, dto.CreatePostingRequest{
		AccountID: account.AccountID,
		Direction: "debit",
		Amount:    decimal.NewFromInt(10),
	}, "tester")

	suite.Require().ErrorIs(err, apperrors.ErrAccountInactive)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestApplyPosting_NonPositiveAmount() {
	ctx := context.Background()
	account := activeAccount(domain.Expense, decimal.Zero)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Twice()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-20)} {
		_, err := suite.service.ApplyPosting(ctx, dto.CreatePostingRequest{
			AccountID: account.AccountID,
			Direction: "debit",
			Amount:    amount,
		}, "tester")
		suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	}
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestApplyPosting_InvalidDirection() {
	ctx := context.Background()

	_, err := suite.service.ApplyPosting(ctx, dto.CreatePostingRequest{
		AccountID: uuid.NewString(),
		Direction: "sideways",
		Amount:    decimal.NewFromInt(10),
	}, "tester")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidDirection)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

// --- ReversePosting ---

func (suite *LedgerServiceTestSuite) TestReversePosting_Success() {
	ctx := context.Background()
	account := activeAccount(domain.Asset, decimal.NewFromInt(100))
	posting := &domain.Posting{
		PostingID: uuid.NewString(),
		AccountID: account.AccountID,
		Direction: domain.Debit,
		Amount:    decimal.NewFromInt(100),
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now(),
			CreatedBy: "tester",
		},
	}

	suite.mockPostingRepo.On("FindPostingByID", ctx, posting.PostingID).Return(posting, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	// Reversing a debit on an asset account applies a credit delta of -100.
	suite.mockPostingRepo.On("MarkPostingReversed", ctx, posting.PostingID, decimalEq(decimal.NewFromInt(-100)), "remover", mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversed, err := suite.service.ReversePosting(ctx, posting.PostingID, "remover")

	suite.Require().NoError(err)
	suite.Require().NotNil(reversed)
	suite.True(reversed.IsDeleted)
	suite.Equal(domain.Reversed, reversed.Status())
	suite.Equal("remover", reversed.DeletedBy)
	suite.Require().NotNil(reversed.DeletedAt)

	suite.mockPostingRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReversePosting_UsesAccountTypeAtReversalTime() {
	// Account types are immutable after creation, so the reversal delta is
	// computed from the current type. A liability debit of 50 reverses to a
	// credit delta of +50.
	ctx := context.Background()
	account := activeAccount(domain.Liability, decimal.NewFromInt(-50))
	posting := &domain.Posting{
		PostingID: uuid.NewString(),
		AccountID: account.AccountID,
		Direction: domain.Debit,
		Amount:    decimal.NewFromInt(50),
	}

	suite.mockPostingRepo.On("FindPostingByID", ctx, posting.PostingID).Return(posting, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockPostingRepo.On("MarkPostingReversed", ctx, posting.PostingID, decimalEq(decimal.NewFromInt(50)), "remover", mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.ReversePosting(ctx, posting.PostingID, "remover")

	suite.Require().NoError(err)
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReversePosting_NotFound() {
	ctx := context.Background()
	postingID := uuid.NewString()

	suite.mockPostingRepo.On("FindPostingByID", ctx, postingID).Return(nil, apperrors.ErrTransactionNotFound).Once()

	_, err := suite.service.ReversePosting(ctx, postingID, "remover")

	suite.Require().ErrorIs(err, apperrors.ErrTransactionNotFound)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "MarkPostingReversed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReversePosting_AlreadyReversed() {
	ctx := context.Background()
	now := time.Now()
	posting := &domain.Posting{
		PostingID: uuid.NewString(),
		AccountID: uuid.NewString(),
		Direction: domain.Credit,
		Amount:    decimal.NewFromInt(200),
		IsDeleted: true,
		DeletionFields: domain.DeletionFields{
			DeletedAt: &now,
			DeletedBy: "remover",
		},
	}

	suite.mockPostingRepo.On("FindPostingByID", ctx, posting.PostingID).Return(posting, nil).Once()

	_, err := suite.service.ReversePosting(ctx, posting.PostingID, "remover")

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyReversed)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "MarkPostingReversed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReversePosting_AccountMissing() {
	ctx := context.Background()
	posting := &domain.Posting{
		PostingID: uuid.NewString(),
		AccountID: uuid.NewString(),
		Direction: domain.Debit,
		Amount:    decimal.NewFromInt(10),
	}

	suite.mockPostingRepo.On("FindPostingByID", ctx, posting.PostingID).Return(posting, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, posting.AccountID).Return(nil, apperrors.ErrAccountNotFound).Once()

	_, err := suite.service.ReversePosting(ctx, posting.PostingID, "remover")

	suite.Require().ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "MarkPostingReversed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReversePosting_LostRace() {
	ctx := context.Background()
	account := activeAccount(domain.Income, decimal.NewFromInt(200))
	posting := &domain.Posting{
		PostingID: uuid.NewString(),
		AccountID: account.AccountID,
		Direction: domain.Credit,
		Amount:    decimal.NewFromInt(200),
	}

	suite.mockPostingRepo.On("FindPostingByID", ctx, posting.PostingID).Return(posting, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockPostingRepo.On("MarkPostingReversed", ctx, posting.PostingID, mock.Anything, "remover", mock.AnythingOfType("time.Time")).Return(apperrors.ErrAlreadyReversed).Once()

	_, err := suite.service.ReversePosting(ctx, posting.PostingID, "remover")

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyReversed)
}

// --- ListPostings ---

func (suite *LedgerServiceTestSuite) TestListPostings_DefaultsAndClamps() {
	ctx := context.Background()
	account := activeAccount(domain.Asset, decimal.Zero)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Twice()
	suite.mockPostingRepo.On("ListPostingsByAccountID", ctx, account.AccountID, 20, 0).Return([]domain.Posting{}, nil).Once()
	suite.mockPostingRepo.On("ListPostingsByAccountID", ctx, account.AccountID, 100, 5).Return([]domain.Posting{}, nil).Once()

	_, err := suite.service.ListPostings(ctx, account.AccountID, dto.ListPostingsParams{})
	suite.Require().NoError(err)

	_, err = suite.service.ListPostings(ctx, account.AccountID, dto.ListPostingsParams{Limit: 500, Offset: 5})
	suite.Require().NoError(err)

	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
