package cliente

import "time"

type Cliente struct {
	ID             string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Codigo         string     `gorm:"column:codigo;uniqueIndex;not null" json:"codigo"`
	Loja           string     `gorm:"column:loja;not null" json:"loja"`
	Nome           string     `gorm:"column:nome;not null" json:"nome"`
	CPF            string     `gorm:"column:cpf;uniqueIndex;not null" json:"cpf"`
	DataNascimento *time.Time `gorm:"column:data_nascimento;type:date" json:"data_nascimento"`
	NomeCliente    string     `gorm:"column:nome_cliente;not null" json:"nome_cliente"`
	Classificacao1 *string    `gorm:"column:classificacao1" json:"classificacao1"`
	CEP            *string    `gorm:"column:cep" json:"cep"`
	Endereco       *string    `gorm:"column:endereco" json:"endereco"`
	Numero         *string    `gorm:"column:numero" json:"numero"`
	Bairro         *string    `gorm:"column:bairro" json:"bairro"`
	Cidade         *string    `gorm:"column:cidade" json:"cidade"`
	UF             *string    `gorm:"column:uf" json:"uf"`
	TipoRes        *string    `gorm:"column:tipo_res" json:"tipo_res"`
	Telefone       *string    `gorm:"column:telefone" json:"telefone"`
	Celular        *string    `gorm:"column:celular" json:"celular"`
	Observacoes    *string    `gorm:"column:observacoes" json:"observacoes"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at" json:"updated_at"`
	CreatedBy      *string    `gorm:"column:created_by;type:uuid" json:"created_by"`
	UpdatedBy      *string    `gorm:"column:updated_by;type:uuid" json:"updated_by"`
}

func (Cliente) TableName() string {
	return "clientes"
}
