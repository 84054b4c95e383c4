package domain

// KnowledgeRecord is the static description of the consulting offer that grounds
// every answer. It is loaded once at startup and never mutated.
type KnowledgeRecord struct {
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	About    string    `json:"about"`
	Services []Service `json:"services"`
	Process  []string  `json:"process"`
	Contacts Contacts  `json:"contacts"`
	FAQ      []FAQItem `json:"faq"`
}

// Service is one category of the service catalog. Every field but Category is optional.
type Service struct {
	Category    string        `json:"category"`
	Description string        `json:"description,omitempty"`
	Price       string        `json:"price,omitempty"`
	Duration    string        `json:"duration,omitempty"`
	Items       []ServiceItem `json:"items,omitempty"`
}

type ServiceItem struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type Contacts struct {
	Email    string `json:"email"`
	Telegram string `json:"telegram"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
