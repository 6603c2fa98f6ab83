package fixture

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var ErrMalformedLabel = errors.New("event label does not parse as '<home> vs <away>'")

var noiseChars = regexp.MustCompile(`[-\s.]`)

// Normalize reduz um nome de time à forma usada na comparação:
// minúsculas, sem espaços/hífens/pontos, com aliases conhecidos dobrados
// ("Saint" -> "St", "PSG" -> nome completo do clube).
func Normalize(name string) string {
	n := strings.ToLower(name)
	n = noiseChars.ReplaceAllString(n, "")
	n = strings.ReplaceAll(n, "saint", "st")
	n = strings.ReplaceAll(n, "psg", "parissaintgermain")
	return n
}

var vsSeparator = regexp.MustCompile(`(?i)\s+vs\s+`)

// ParseEventLabel separa "<home> vs <away>" (case-insensitive) nos dois lados.
// Labels que não produzem exatamente dois lados não vazios são malformados e
// nunca vão se resolver sozinhos.
func ParseEventLabel(label string) (home, away string, err error) {
	parts := vsSeparator.Split(label, -1)
	if len(parts) != 2 {
		return "", "", ErrMalformedLabel
	}
	home = strings.TrimSpace(parts[0])
	away = strings.TrimSpace(parts[1])
	if home == "" || away == "" {
		return "", "", ErrMalformedLabel
	}
	return home, away, nil
}

// DeriveKey produz a chave de agrupamento de fallback quando o feed não
// resolve o evento no momento da aposta. Ordena o par normalizado pra que
// "A vs B" e "B vs A" caiam na mesma chave.
func DeriveKey(league, home, away string) string {
	pair := []string{Normalize(home), Normalize(away)}
	sort.Strings(pair)
	return strings.ToLower(strings.TrimSpace(league)) + ":" + pair[0] + ":" + pair[1]
}
