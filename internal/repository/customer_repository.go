package repository

import (
	"errors"
	"fmt"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateCustomer is returned when creating a customer fails inside the signup transaction.
	ErrCreateCustomer = errors.New("customer repository: create customer failed")
	// ErrCreateAdminUser is returned when creating the admin user fails inside the signup transaction.
	ErrCreateAdminUser = errors.New("customer repository: create admin user failed")
)

// GormCustomerRepository is a GORM implementation of CustomerRepository
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(id uint64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByCompanyName finds a customer by company name
func (r *GormCustomerRepository) FindByCompanyName(name string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("company_name = ?", name).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByCompanyEmail finds a customer by company email
func (r *GormCustomerRepository) FindByCompanyEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("company_email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateWithAdmin creates a customer and its admin user atomically.
func (r *GormCustomerRepository) CreateWithAdmin(customer *models.Customer, admin *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateCustomer, err)
		}

		admin.CustomerID = customer.ID

		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateAdminUser, err)
		}

		return nil
	})
}

// CountUsers counts the users belonging to a customer
func (r *GormCustomerRepository) CountUsers(customerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}
