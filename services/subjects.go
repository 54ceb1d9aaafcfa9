package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/studycircle/studyroom-api/models"
	"gorm.io/gorm"
)

// SubjectsService manages the catalog of subject tags rooms are filed under
type SubjectsService struct {
	DB *gorm.DB
}

// GetAllSubjects gets the full list of subjects
func (s *SubjectsService) GetAllSubjects() ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := s.DB.Order("name").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// SeedDefaults inserts the default subject catalog if the table is empty
func (s *SubjectsService) SeedDefaults() error {

	var count int64
	if err := s.DB.Model(&models.Subject{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name string
		icon string
	}{
		{"Mathematics", "Calculator"},
		{"Physics", "Atom"},
		{"Chemistry", "FlaskConical"},
		{"Biology", "Dna"},
		{"Computer Science", "Laptop"},
		{"Literature", "Book"},
		{"History", "Landmark"},
		{"Geography", "Globe"},
		{"Art", "Palette"},
		{"Music", "Music"},
	}
	subjects := make([]*models.Subject, 0, len(defaults))
	for _, d := range defaults {
		subjects = append(subjects, &models.Subject{
			ID:   uuid.NewString(),
			Name: d.name,
			Icon: d.icon,
		})
	}
	if err := s.DB.Create(&subjects).Error; err != nil {
		return err
	}

	logrus.WithField("count", len(subjects)).Info("seeded default subjects")
	return nil

}
