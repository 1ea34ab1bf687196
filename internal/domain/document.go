package domain

// DocumentType identifies which batch root a scanned file carried
type DocumentType string

const (
	DocumentTypeFatura   DocumentType = "fatura"
	DocumentTypeTahsilat DocumentType = "tahsilat"
)

// Root element names of the supported exports
const (
	RootFatura   = "FATURALAR"
	RootTahsilat = "TAHSILATLAR"
)

// Identity is the verified caller placed in the request context by the auth layer
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Subject string `json:"sub"`
}
