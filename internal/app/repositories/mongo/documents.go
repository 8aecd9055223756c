package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
)

// Field names follow the documents written by earlier deployments of the
// portal so existing collections can be read as is.

type userDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	Mobile            string             `bson:"mobile"`
	Password          string             `bson:"password"`
	Role              string             `bson:"role"`
	IsProfileComplete bool               `bson:"isProfileComplete"`
	Name              string             `bson:"name,omitempty"`
	DOB               string             `bson:"dob,omitempty"`
	FatherName        string             `bson:"fatherName,omitempty"`
	StudentClass      int                `bson:"studentClass,omitempty"`
	Gender            string             `bson:"gender,omitempty"`
	Medium            string             `bson:"medium,omitempty"`
	SchoolName        string             `bson:"schoolName,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt,omitempty"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:                d.ID.Hex(),
		Mobile:            d.Mobile,
		PasswordHash:      d.Password,
		Role:              models.RoleType(d.Role),
		IsProfileComplete: d.IsProfileComplete,
		Profile: models.Profile{
			Name:       d.Name,
			DOB:        d.DOB,
			FatherName: d.FatherName,
			ClassLevel: d.StudentClass,
			Gender:     models.Gender(d.Gender),
			Medium:     models.Medium(d.Medium),
			SchoolName: d.SchoolName,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type contentDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	ClassLevel          int                `bson:"classLevel"`
	Medium              string             `bson:"medium"`
	Subject             string             `bson:"subject"`
	ChapterName         string             `bson:"chapterName"`
	Exercise            *string            `bson:"exercise,omitempty"`
	QuestionNumber      string             `bson:"questionNumber"`
	QuestionDescription string             `bson:"questionDescription,omitempty"`
	VideoID             string             `bson:"videoID,omitempty"`
	TextSolution        string             `bson:"textSolution,omitempty"`
	QuestionImage       string             `bson:"questionImage,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

func newContentDocument(c *models.Content) contentDocument {
	return contentDocument{
		ClassLevel:          c.ClassLevel,
		Medium:              string(c.Medium),
		Subject:             c.Subject,
		ChapterName:         c.ChapterName,
		Exercise:            c.Exercise,
		QuestionNumber:      c.QuestionNumber,
		QuestionDescription: c.QuestionDescription,
		VideoID:             c.VideoID,
		TextSolution:        c.TextSolution,
		QuestionImage:       c.ImageRef,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func (d *contentDocument) toModel() models.Content {
	return models.Content{
		ID:                  d.ID.Hex(),
		ClassLevel:          d.ClassLevel,
		Medium:              models.Medium(d.Medium),
		Subject:             d.Subject,
		ChapterName:         d.ChapterName,
		Exercise:            d.Exercise,
		QuestionNumber:      d.QuestionNumber,
		QuestionDescription: d.QuestionDescription,
		ImageRef:            d.QuestionImage,
		VideoID:             d.VideoID,
		TextSolution:        d.TextSolution,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}
