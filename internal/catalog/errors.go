package catalog

import "github.com/ariefcatur/go-commerce-core/internal/apperr"

var (
	ErrNotFound     = apperr.New("Product.NotFound", "Product was not found.")
	ErrInvalidState = apperr.New("Product.InvalidState", "Product is in an invalid state for this operation.")

	// creation
	ErrInvalidName = apperr.New("Product.InvalidName", "Product name cannot be empty.")
	ErrInvalidSku  = apperr.New("Product.InvalidSku", "SKU must be non-empty and at most 64 characters.")

	// status transitions
	ErrAlreadyActive                = apperr.New("Product.AlreadyActive", "Product is already active.")
	ErrNotActive                    = apperr.New("Product.NotActive", "Product must be active to perform this operation.")
	ErrInvalidStatus                = apperr.New("Product.Invalid", "Product status is invalid.")
	ErrAlreadyDiscontinued          = apperr.New("Product.AlreadyDiscontinued", "Product is already discontinued.")
	ErrDiscontinuedCannotBeModified = apperr.New("Product.DiscontinuedCannotBeModified", "Discontinued products cannot be modified.")

	// category
	ErrCategoryUnchanged = apperr.New("Product.CategoryUnchanged", "New category is the same as the current category.")
	ErrInvalidCategoryID = apperr.New("Product.InvalidCategoryId", "CategoryId cannot be empty.")

	// price
	ErrPriceUnchanged = apperr.New("Product.PriceUnchanged", "New price is the same as the current price.")
	ErrInvalidPrice   = apperr.New("Product.InvalidPrice", "Price must be valid and greater than or equal to zero.")

	// features
	ErrInvalidFeatureID    = apperr.New("Product.InvalidFeatureId", "FeatureId cannot be empty.")
	ErrFeatureNotFound     = apperr.New("Product.FeatureNotFound", "Feature was not found for this product.")
	ErrDuplicateFeatureID  = apperr.New("Product.DuplicateFeatureId", "FeatureId must be unique within the product.")
	ErrFeatureExists       = apperr.New("Product.FeatureAlreadyExists", "A feature with the same name already exists for this product.")
	ErrInvalidFeatureName  = apperr.New("Product.InvalidFeatureName", "Feature name cannot be empty.")
	ErrInvalidFeatureValue = apperr.New("Product.InvalidFeatureValue", "Feature value cannot be empty.")
)
