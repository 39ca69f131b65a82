package crpt

// DocTypeIntroduceGoods document type for goods produced in Russia entering
// circulation
const DocTypeIntroduceGoods = "LP_INTRODUCE_GOODS"

// Document marked-goods introduction document.
// Empty fields are omitted from the serialized payload.
type Document struct {
	Description    *Description `json:"description,omitempty"`
	DocID          string       `json:"doc_id,omitempty"`
	DocStatus      string       `json:"doc_status,omitempty"`
	DocType        string       `json:"doc_type,omitempty"`
	ImportRequest  bool         `json:"importRequest,omitempty"`
	OwnerINN       string       `json:"owner_inn,omitempty"`
	ParticipantINN string       `json:"participant_inn,omitempty"`
	ProducerINN    string       `json:"producer_inn,omitempty"`
	ProductionDate string       `json:"production_date,omitempty"`
	ProductionType string       `json:"production_type,omitempty"`
	Products       []Product    `json:"products,omitempty"`
	RegDate        string       `json:"reg_date,omitempty"`
	RegNumber      string       `json:"reg_number,omitempty"`
}

// Description document description block
type Description struct {
	ParticipantINN string `json:"participantInn,omitempty"`
}

// Product a single marked product entry
type Product struct {
	CertificateDocument       string `json:"certificate_document,omitempty"`
	CertificateDocumentDate   string `json:"certificate_document_date,omitempty"`
	CertificateDocumentNumber string `json:"certificate_document_number,omitempty"`
	OwnerINN                  string `json:"owner_inn,omitempty"`
	ProducerINN               string `json:"producer_inn,omitempty"`
	ProductionDate            string `json:"production_date,omitempty"`
	TnvedCode                 string `json:"tnved_code,omitempty"`
	UitCode                   string `json:"uit_code,omitempty"`
	UituCode                  string `json:"uitu_code,omitempty"`
}
