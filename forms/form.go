package forms

import (
	"strconv"
	"strings"
)

// Field descreve um campo do formulário.
//
// ID é numérico em formato texto ("1", "2", "1.3"); o nome do input no corpo
// da requisição segue a convenção input_<id>.
type Field struct {
	ID        string `yaml:"id" json:"id"`
	Label     string `yaml:"label" json:"label"`
	Type      string `yaml:"type" json:"type"`
	Required  bool   `yaml:"required" json:"required"`
	Sensitive bool   `yaml:"sensitive" json:"sensitive"`
}

// InputName devolve o nome do input correspondente ao campo.
func (f Field) InputName() string {
	return inputPrefix + strings.ReplaceAll(strings.TrimSpace(f.ID), ".", "_")
}

// Secret indica campo cujo valor não pode sair do processo: não vai para log
// nem volta preenchido no HTML.
func (f Field) Secret() bool {
	if f.Sensitive {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(f.Type)) {
	case "password", "creditcard":
		return true
	}
	return false
}

type Form struct {
	ID             int     `yaml:"id" json:"id"`
	Title          string  `yaml:"title" json:"title"`
	Fields         []Field `yaml:"fields" json:"fields"`
	EnableHoneypot bool    `yaml:"enable_honeypot" json:"enableHoneypot"`
}

const inputPrefix = "input_"

// FieldByInput procura o campo pelo nome do input.
func (f Form) FieldByInput(name string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.InputName() == name {
			return fd, true
		}
	}
	return Field{}, false
}

// SecretInput diz se o input pertence a um campo Secret. Sub-inputs
// (input_4_1, input_4_2) herdam do campo pai.
func (f Form) SecretInput(name string) bool {
	if fd, ok := f.FieldByInput(name); ok {
		return fd.Secret()
	}
	for _, fd := range f.Fields {
		if strings.HasPrefix(name, fd.InputName()+"_") {
			return fd.Secret()
		}
	}
	return false
}

// Clone faz cópia profunda (o slice de campos não é compartilhado).
func (f Form) Clone() Form {
	out := f
	if f.Fields != nil {
		out.Fields = make([]Field, len(f.Fields))
		copy(out.Fields, f.Fields)
	}
	return out
}

// MaxFieldID percorre os campos, interpreta cada id como número e devolve o maior.
// Sem campos (ou ids inválidos) o resultado é 0.
func MaxFieldID(form Form) int {
	max := 0.0
	for _, fd := range form.Fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(fd.ID), 64)
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	return int(max)
}

// HoneypotInput é o input reservado para a armadilha de spam: input_<max+1>.
// Nunca colide com um campo real.
func HoneypotInput(form Form) string {
	return inputPrefix + strconv.Itoa(MaxFieldID(form)+1)
}
