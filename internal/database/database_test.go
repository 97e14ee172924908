package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type DBTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func (s *DBTestSuite) SetupTest() {
	db, err := Init(config.DatabaseConfig{Path: filepath.Join(s.T().TempDir(), "test.db")})
	require.NoError(s.T(), err)
	require.NoError(s.T(), AutoMigrate(db))
	s.db = db
}

func (s *DBTestSuite) TearDownTest() {
	if s.db != nil {
		_ = Close(s.db)
	}
}

func (s *DBTestSuite) createUser(name string) models.User {
	u := models.User{Username: name, PasswordHash: "x"}
	require.NoError(s.T(), s.db.Create(&u).Error)
	return u
}

func (s *DBTestSuite) createExpense(userID uint, catID *uint, amount string) models.Expense {
	e := models.Expense{
		UserID:     userID,
		Title:      "t",
		Amount:     decimal.RequireFromString(amount),
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CategoryID: catID,
		Type:       models.TypeExpense,
	}
	require.NoError(s.T(), s.db.Create(&e).Error)
	return e
}

func (s *DBTestSuite) TestAmountRoundTrip() {
	u := s.createUser("alice")
	e := s.createExpense(u.ID, nil, "12.34")

	var got models.Expense
	require.NoError(s.T(), s.db.First(&got, e.ID).Error)
	assert.Equal(s.T(), "12.34", got.Amount.StringFixed(2))
	assert.Nil(s.T(), got.CategoryID)
}

func (s *DBTestSuite) TestDeleteCategoryNullsExpenses() {
	u := s.createUser("alice")
	cat := models.Category{UserID: u.ID, Name: "Food"}
	require.NoError(s.T(), s.db.Create(&cat).Error)
	e1 := s.createExpense(u.ID, &cat.ID, "10")
	e2 := s.createExpense(u.ID, &cat.ID, "5.5")

	require.NoError(s.T(), DeleteCategory(s.db, u.ID, cat.ID))

	var count int64
	s.db.Model(&models.Expense{}).Where("id IN ?", []uint{e1.ID, e2.ID}).Count(&count)
	assert.Equal(s.T(), int64(2), count, "expenses must survive category deletion")

	var got models.Expense
	require.NoError(s.T(), s.db.First(&got, e1.ID).Error)
	assert.Nil(s.T(), got.CategoryID)

	err := s.db.First(&models.Category{}, cat.ID).Error
	assert.True(s.T(), errors.Is(err, gorm.ErrRecordNotFound))
}

func (s *DBTestSuite) TestDeleteCategoryOtherOwner() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	cat := models.Category{UserID: alice.ID, Name: "Food"}
	require.NoError(s.T(), s.db.Create(&cat).Error)

	err := DeleteCategory(s.db, bob.ID, cat.ID)
	assert.True(s.T(), errors.Is(err, gorm.ErrRecordNotFound))

	assert.NoError(s.T(), s.db.First(&models.Category{}, cat.ID).Error)
}

func (s *DBTestSuite) TestDeleteUserCascades() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	cat := models.Category{UserID: alice.ID, Name: "Rent"}
	require.NoError(s.T(), s.db.Create(&cat).Error)
	s.createExpense(alice.ID, &cat.ID, "100")
	s.createExpense(bob.ID, nil, "7")
	require.NoError(s.T(), s.db.Create(&models.MonthlyBudget{
		UserID: alice.ID, Year: 2024, Month: 3, Amount: decimal.NewFromInt(500),
	}).Error)
	require.NoError(s.T(), s.db.Create(&models.Session{
		ID: "sess-1", UserID: alice.ID, ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	require.NoError(s.T(), DeleteUser(s.db, alice.ID))

	for _, m := range []interface{}{&models.Expense{}, &models.Category{}, &models.MonthlyBudget{}, &models.Session{}} {
		var n int64
		s.db.Model(m).Where("user_id = ?", alice.ID).Count(&n)
		assert.Zero(s.T(), n, "%T rows left behind", m)
	}

	var bobRows int64
	s.db.Model(&models.Expense{}).Where("user_id = ?", bob.ID).Count(&bobRows)
	assert.Equal(s.T(), int64(1), bobRows)

	assert.True(s.T(), errors.Is(DeleteUser(s.db, alice.ID), gorm.ErrRecordNotFound))
}

func (s *DBTestSuite) TestBudgetUniquePerMonth() {
	u := s.createUser("alice")
	b := models.MonthlyBudget{UserID: u.ID, Year: 2024, Month: 5, Amount: decimal.NewFromInt(100)}
	require.NoError(s.T(), s.db.Create(&b).Error)

	dup := models.MonthlyBudget{UserID: u.ID, Year: 2024, Month: 5, Amount: decimal.NewFromInt(200)}
	assert.Error(s.T(), s.db.Create(&dup).Error)
}

func TestDBTestSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dsn("a.db"))
	assert.Contains(t, dsn("file:x?mode=memory"), "mode=memory&_foreign_keys=on")
}
