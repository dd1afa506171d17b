package adapters

import (
	"time"

	"gadget_backend/internal/feature/auth/domain/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255"`
	Email     string `gorm:"uniqueIndex;size:255;not null"`
	Password  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Password: m.Password,
	}
}

// UserModelFromEntity converts a domain entity to a GORM model.
func UserModelFromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}
}

// userDocument is the BSON shape of a document in the users collection.
type userDocument struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	Name     string        `bson:"name"`
	Email    string        `bson:"email"`
	Password string        `bson:"password"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
	}
}
