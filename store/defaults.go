package store

import "time"

// Defaults is the data a fresh installation starts with. Load merges the
// persisted blob over it key by key.
func Defaults(now time.Time) Data {
	return Data{
		Company: Company{
			Name:        "JK Winners Investment",
			TradingName: "JKWI",
			Description: "JK Winners Investment (JKWI) is a comprehensive investment company structured to provide excellence across multiple sectors.",
			LastUpdated: now,
		},
		Directors: []Director{{
			ID:        1,
			Name:      "John Doe",
			Position:  "President",
			Division:  "Main Structure",
			Email:     "john.doe@jkwi.com",
			Phone:     "+1234567890",
			CreatedAt: now,
		}},
		Divisions: []Division{
			{ID: 1, Name: "Mining Division", Description: "Mineral extraction and resource development", Reference: divisionReference},
			{ID: 2, Name: "Infrastructure Division", Description: "Construction and development projects", Reference: divisionReference},
			{ID: 3, Name: "Farming Division", Description: "Agricultural and agribusiness ventures", Reference: divisionReference},
			{ID: 4, Name: "Service Division", Description: "Professional and consulting services", Reference: divisionReference},
			{ID: 5, Name: "Finance Division", Description: "Financial services and investment management", Reference: divisionReference},
			{ID: 6, Name: "Legal Division", Description: "Legal advisory and compliance services", Reference: divisionReference},
			{ID: 7, Name: "Media Division", Description: "Communications and media services", Reference: divisionReference},
			{ID: 8, Name: "Social Division", Description: "Community engagement and social impact", Reference: divisionReference},
		},
		Partnerships: []Partnership{
			{ID: 1, Name: "Chair Office", Description: "Office of the Chair of the Board - Strategic leadership and governance oversight", Reference: partnershipReference},
			{ID: 2, Name: "Customer Interest", Description: "Dedicated to serving our clients' needs and ensuring satisfaction", Reference: partnershipReference},
			{ID: 3, Name: "Investors", Description: "Partnership opportunities for financial growth and development", Reference: partnershipReference},
			{ID: 4, Name: "Partners", Description: "Strategic alliances for mutual growth and success", Reference: partnershipReference},
		},
		Members: []Member{{
			ID:               1,
			Username:         "winner001",
			FullName:         "Jane Smith",
			Email:            "jane.smith@jkwi.com",
			Division:         "Finance Division",
			Status:           StatusActive,
			RegistrationDate: now,
		}},
		Activities: []Activity{},
	}
}
