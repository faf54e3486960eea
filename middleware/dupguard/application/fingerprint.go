package application

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"middleware-formguard/middleware/dupguard/domain"

	"github.com/cespare/xxhash/v2"
)

// HashFunc transforma a serialização canônica no digest final.
type HashFunc func(b []byte) string

func HashMD5(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func HashXXH64(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

// ParseHash aceita "md5" (padrão) ou "xxhash".
func ParseHash(name string) (HashFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md5":
		return HashMD5, nil
	case "xxhash", "xxh64":
		return HashXXH64, nil
	default:
		return nil, fmt.Errorf("unknown fingerprint hash %q", name)
	}
}

// Fingerprinter calcula a impressão digital de uma submissão.
//
// A serialização é canônica: chaves ordenadas, chave e valores com prefixo de
// tamanho, valores na ordem de envio dentro da mesma chave. A ordem das chaves
// no mapa nunca muda o resultado.
type Fingerprinter struct {
	Hash HashFunc
	// Ignore lista chaves que não entram no cálculo (ex: token CSRF por render).
	Ignore []string
}

func (f Fingerprinter) Fingerprint(formID int, values url.Values) domain.Fingerprint {
	h := f.Hash
	if h == nil {
		h = HashMD5
	}
	return domain.Fingerprint(h(f.canonical(formID, values)))
}

func (f Fingerprinter) canonical(formID int, values url.Values) []byte {
	ignore := make(map[string]bool, len(f.Ignore))
	for _, k := range f.Ignore {
		ignore[k] = true
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if !ignore[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("form:")
	b.WriteString(strconv.Itoa(formID))
	b.WriteByte('\n')
	for _, k := range keys {
		writeLP(&b, k)
		vs := values[k]
		b.WriteString(strconv.Itoa(len(vs)))
		b.WriteByte('[')
		for _, v := range vs {
			writeLP(&b, v)
		}
		b.WriteString("]\n")
	}
	return []byte(b.String())
}

func writeLP(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}
