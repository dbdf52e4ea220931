package services

import (
	"sort"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
)

// Partition indexes values by gender and category hash.
type Partition[T any] struct {
	buckets models.Gendered[map[string]T]
}

func NewPartition[T any]() *Partition[T] {
	return &Partition[T]{buckets: models.NewGendered(func(models.Gender) map[string]T { return map[string]T{} })}
}

func (p *Partition[T]) Get(gender models.Gender, category models.Category) (T, bool) {
	return p.GetKey(gender, brackets.HashCategory(category))
}

func (p *Partition[T]) GetKey(gender models.Gender, key string) (T, bool) {
	v, ok := p.buckets[gender][key]
	return v, ok
}

func (p *Partition[T]) Set(gender models.Gender, category models.Category, value T) {
	p.SetKey(gender, brackets.HashCategory(category), value)
}

func (p *Partition[T]) SetKey(gender models.Gender, key string, value T) {
	p.buckets[gender][key] = value
}

func (p *Partition[T]) Has(gender models.Gender, category models.Category) bool {
	_, ok := p.Get(gender, category)
	return ok
}

func (p *Partition[T]) Delete(gender models.Gender, category models.Category) {
	p.DeleteKey(gender, brackets.HashCategory(category))
}

func (p *Partition[T]) DeleteKey(gender models.Gender, key string) {
	delete(p.buckets[gender], key)
}

func (p *Partition[T]) Clear() {
	for _, g := range models.Genders {
		p.buckets[g] = map[string]T{}
	}
}

// Keys returns the category hashes of a gender in sorted order.
func (p *Partition[T]) Keys(gender models.Gender) []string {
	keys := make([]string, 0, len(p.buckets[gender]))
	for k := range p.buckets[gender] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Partition[T]) Len(gender models.Gender) int {
	return len(p.buckets[gender])
}
