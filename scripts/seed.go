// scripts/seed.go
package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/myiephero/matchengine/config"
	"github.com/myiephero/matchengine/database"
	"github.com/myiephero/matchengine/models"
)

// Seeds a dev database with a parent, an admin, two advocates and one
// student so the matching endpoints have something to chew on.
func main() {
	cfg := config.Load()
	database.Connect(cfg)

	parentID := uuid.NewString()
	adminID := uuid.NewString()
	adv1 := uuid.NewString()
	adv2 := uuid.NewString()

	profiles := []models.Profile{
		{ID: parentID, Name: "Jordan Parent", Email: "parent@example.com", Role: "parent"},
		{ID: adminID, Name: "Site Admin", Email: "admin@example.com", Role: "admin"},
		{ID: adv1, Name: "Dr. Sarah Williams", Email: "sarah@example.com", Role: "advocate"},
		{ID: adv2, Name: "James Rodriguez", Email: "james@example.com", Role: "advocate"},
	}
	for i := range profiles {
		if err := database.DB.Create(&profiles[i]).Error; err != nil {
			log.Fatalf("failed to create profile %s: %v", profiles[i].Email, err)
		}
	}

	budget := 150.0
	student := models.Student{
		ID:        uuid.NewString(),
		ParentID:  parentID,
		Name:      "Emma Johnson",
		Grade:     "5th",
		Needs:     datatypes.NewJSONSlice([]string{"autism", "speech", "behavioral"}),
		Languages: datatypes.NewJSONSlice([]string{"English"}),
		Timezone:  "America/New_York",
		Budget:    &budget,
		Narrative: "Emma is a bright 5th grader with autism who needs support with behavioral interventions and speech therapy goals.",
	}
	if err := database.DB.Create(&student).Error; err != nil {
		log.Fatalf("failed to create student: %v", err)
	}

	advocates := []models.AdvocateProfile{
		{
			ID:              adv1,
			Name:            "Dr. Sarah Williams",
			Bio:             "Certified special education advocate with 15 years of experience specializing in autism spectrum disorders.",
			Tags:            datatypes.NewJSONSlice([]string{"autism", "behavioral", "speech", "sensory"}),
			Languages:       datatypes.NewJSONSlice([]string{"English", "Spanish"}),
			Timezone:        "America/New_York",
			HourlyRate:      125,
			ExperienceYears: 15,
			MaxCaseload:     8,
		},
		{
			ID:              adv2,
			Name:            "James Rodriguez",
			Bio:             "Former special education teacher turned advocate, focusing on twice-exceptional and gifted students.",
			Tags:            datatypes.NewJSONSlice([]string{"gifted", "twice_exceptional", "adhd", "executive_function"}),
			Languages:       datatypes.NewJSONSlice([]string{"English", "Spanish"}),
			Timezone:        "America/Los_Angeles",
			HourlyRate:      175,
			ExperienceYears: 12,
			MaxCaseload:     6,
		},
	}
	for i := range advocates {
		if err := database.DB.Create(&advocates[i]).Error; err != nil {
			log.Fatalf("failed to create advocate %s: %v", advocates[i].Name, err)
		}
	}

	fmt.Println("seeded dev data:")
	fmt.Printf("  parent profile:  %s\n", parentID)
	fmt.Printf("  admin profile:   %s\n", adminID)
	fmt.Printf("  student:         %s\n", student.ID)
	fmt.Printf("  advocates:       %s, %s\n", adv1, adv2)
}
