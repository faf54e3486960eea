package forms

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrFormNotFound = errors.New("form not found")

// Registry guarda as definições de formulário em memória.
// Pode ser recarregado a quente a partir do arquivo YAML de origem.
type Registry struct {
	mu    sync.RWMutex
	forms map[int]Form
	path  string
}

type registryFile struct {
	Forms []Form `yaml:"forms"`
}

func NewRegistry(forms ...Form) *Registry {
	r := &Registry{forms: make(map[int]Form, len(forms))}
	for _, f := range forms {
		r.forms[f.ID] = f
	}
	return r
}

// LoadRegistry lê o arquivo YAML e monta o registry. O caminho fica guardado
// para Reload.
func LoadRegistry(path string) (*Registry, error) {
	forms, err := readForms(path)
	if err != nil {
		return nil, err
	}
	r := NewRegistry(forms...)
	r.path = path
	return r, nil
}

func readForms(path string) ([]Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forms file: %w", err)
	}
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse forms file: %w", err)
	}
	seen := make(map[int]bool, len(f.Forms))
	for i, form := range f.Forms {
		if form.ID <= 0 {
			return nil, fmt.Errorf("forms[%d]: id must be > 0", i)
		}
		if seen[form.ID] {
			return nil, fmt.Errorf("forms[%d]: duplicate id %d", i, form.ID)
		}
		seen[form.ID] = true
	}
	return f.Forms, nil
}

// Reload relê o arquivo de origem. Em erro o conteúdo anterior é mantido.
func (r *Registry) Reload() error {
	if r.path == "" {
		return errors.New("registry has no source file")
	}
	forms, err := readForms(r.path)
	if err != nil {
		return err
	}
	next := make(map[int]Form, len(forms))
	for _, f := range forms {
		next[f.ID] = f
	}

	r.mu.Lock()
	r.forms = next
	r.mu.Unlock()
	return nil
}

func (r *Registry) Path() string { return r.path }

// Get devolve uma cópia da definição; o chamador pode alterá-la livremente.
func (r *Registry) Get(id int) (Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.forms[id]
	if !ok {
		return Form{}, fmt.Errorf("form %d: %w", id, ErrFormNotFound)
	}
	return f.Clone(), nil
}

func (r *Registry) Put(f Form) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[f.ID] = f.Clone()
}

func (r *Registry) IDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int, 0, len(r.forms))
	for id := range r.forms {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
