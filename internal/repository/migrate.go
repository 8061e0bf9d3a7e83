package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table the
// repositories own. The seed command and tests call this; production
// deployments run it once at startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountModel{},
		&customerModel{},
		&partnerModel{},
		&resortModel{},
		&roomTypeModel{},
		&roomModel{},
		&offerModel{},
		&bookingModel{},
		&bookingDetailModel{},
		&timeSlotModel{},
		&invoiceModel{},
		&withdrawModel{},
	)
}
