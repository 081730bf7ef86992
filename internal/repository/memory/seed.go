package memory

import "github.com/Rrens/property-assistant/internal/domain"

// SeedProperties returns the default catalog, in catalog order
func SeedProperties() []domain.Property {
	return []domain.Property{
		{
			ID:          1,
			Title:       "Luxurious Lakefront Villa",
			Description: "Experience unparalleled luxury in this stunning lakefront villa with panoramic views of Lake Naivasha. This architectural masterpiece features soaring ceilings, floor-to-ceiling windows, and exquisite finishes throughout.",
			Price:       250_000_000,
			Location:    "Naivasha",
			Address:     "Lake View Estate, Moi South Lake Road, Naivasha",
			Bedrooms:    6,
			Bathrooms:   7,
			SizeSqft:    8500,
			Status:      domain.StatusForSale,
			Featured:    true,
			AgentID:     1,
		},
		{
			ID:          2,
			Title:       "Modern Penthouse in Westlands",
			Description: "Elevate your lifestyle with this sophisticated penthouse featuring breathtaking views of the Nairobi skyline.",
			Price:       120_000_000,
			Location:    "Nairobi",
			Address:     "Westlands Towers, Waiyaki Way, Westlands",
			Bedrooms:    4,
			Bathrooms:   4.5,
			SizeSqft:    3800,
			Status:      domain.StatusForSale,
			Featured:    true,
			AgentID:     2,
		},
		{
			ID:          3,
			Title:       "Elegant Colonial Estate in Karen",
			Description: "This magnificent colonial estate sits on 2.5 acres of prime land in Karen.",
			Price:       350_000_000,
			Location:    "Nairobi",
			Address:     "Karen Country Club Road, Karen",
			Bedrooms:    7,
			Bathrooms:   8,
			SizeSqft:    12000,
			Status:      domain.StatusForSale,
			Featured:    true,
			AgentID:     3,
		},
	}
}

// SeedAgents returns the agents responsible for the seed catalog
func SeedAgents() []domain.Agent {
	return []domain.Agent{
		{
			ID:    1,
			Name:  "Sarah Kimani",
			Email: "sarah@musili.co.ke",
			Phone: "+254 712 345 678",
			Bio:   "Sarah specializes in luxury residential properties in Nairobi and Naivasha.",
		},
		{
			ID:    2,
			Name:  "David Ochieng",
			Email: "david@musili.co.ke",
			Phone: "+254 723 456 789",
			Bio:   "David focuses on high-end apartments and penthouses in Nairobi's upmarket areas.",
		},
		{
			ID:    3,
			Name:  "Lisa Wanjiku",
			Email: "lisa@musili.co.ke",
			Phone: "+254 734 567 890",
			Bio:   "Lisa specializes in exclusive estates and vacation properties.",
		},
	}
}
