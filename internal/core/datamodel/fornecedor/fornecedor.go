package fornecedor

import "time"

type Status string

const (
	StatusAtivo   Status = "ativo"
	StatusInativo Status = "inativo"
)

type Fornecedor struct {
	ID                string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Codigo            *string    `gorm:"column:codigo;uniqueIndex" json:"codigo"`
	RazaoSocial       string     `gorm:"column:razao_social;not null" json:"razao_social"`
	NomeFantasia      string     `gorm:"column:nome_fantasia;not null" json:"nome_fantasia"`
	CNPJ              string     `gorm:"column:cnpj;uniqueIndex;not null" json:"cnpj"`
	InscricaoEstadual *string    `gorm:"column:inscricao_estadual" json:"inscricao_estadual"`
	Telefone          *string    `gorm:"column:telefone" json:"telefone"`
	Email             *string    `gorm:"column:email" json:"email"`
	Contato           *string    `gorm:"column:contato" json:"contato"`
	CEP               *string    `gorm:"column:cep" json:"cep"`
	Endereco          *string    `gorm:"column:endereco" json:"endereco"`
	Numero            *string    `gorm:"column:numero" json:"numero"`
	Complemento       *string    `gorm:"column:complemento" json:"complemento"`
	Bairro            *string    `gorm:"column:bairro" json:"bairro"`
	Cidade            *string    `gorm:"column:cidade" json:"cidade"`
	UF                *string    `gorm:"column:uf" json:"uf"`
	Website           *string    `gorm:"column:website" json:"website"`
	Categoria         *string    `gorm:"column:categoria" json:"categoria"`
	Observacoes       *string    `gorm:"column:observacoes" json:"observacoes"`
	Status            Status     `gorm:"column:status;not null" json:"status"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         *time.Time `gorm:"column:updated_at" json:"updated_at"`
	CreatedBy         *string    `gorm:"column:created_by;type:uuid" json:"created_by"`
	UpdatedBy         *string    `gorm:"column:updated_by;type:uuid" json:"updated_by"`
}

func (Fornecedor) TableName() string {
	return "fornecedores"
}
