package reaction

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// Pattern is a parsed spatial fusion such as
//
//	Dimerize: Actin-Monomer(actin#free_ATP) + Actin-Monomer(actin#free_ATP) -> Actin-Dimer(actin#pointed_ATP_1--actin#barbed_ATP_2)
type Pattern struct {
	Name    string    `parser:"(@Ident ':')?"`
	First   *Reactant `parser:"@@"`
	Second  *Reactant `parser:"'+' @@"`
	Product *Product  `parser:"'->' @@"`
}

type Reactant struct {
	Topology string `parser:"@Ident"`
	Particle string `parser:"'(' @Ident ')'"`
}

type Product struct {
	Topology string `parser:"@Ident '('"`
	First    string `parser:"@Ident"`
	Second   string `parser:"'--' @Ident ')'"`
}

var sPatternLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Arrow", Pattern: `->`},
	{Name: "Bond", Pattern: `--`},
	{Name: "Punct", Pattern: `[()+:]`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_#]+(?:-[A-Za-z0-9_#]+)*`},
	{Name: "whitespace", Pattern: `[ \t]+`},
})

var sPatternParser = participle.MustBuild[Pattern](
	participle.Lexer(sPatternLexer),
	participle.UseLookahead(2),
)

// ParsePattern parses a spatial reaction descriptor.
func ParsePattern(s string) (Pattern, error) {
	p, err := sPatternParser.ParseString("", s)
	if err != nil {
		return Pattern{}, errors.Wrapf(ErrBadPattern, "%q: %v", s, err)
	}
	return *p, nil
}

// MustParsePattern is ParsePattern for static catalogs.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParticleTypes lists the reactant and product particle types.
func (p Pattern) ParticleTypes() []string {
	return []string{p.First.Particle, p.Second.Particle, p.Product.First, p.Product.Second}
}

// TopologyTypes lists the reactant and product topology types.
func (p Pattern) TopologyTypes() []string {
	return []string{p.First.Topology, p.Second.Topology, p.Product.Topology}
}

func (p Pattern) String() string {
	s := fmt.Sprintf("%s(%s) + %s(%s) -> %s(%s--%s)",
		p.First.Topology, p.First.Particle,
		p.Second.Topology, p.Second.Particle,
		p.Product.Topology, p.Product.First, p.Product.Second)
	if p.Name != "" {
		return p.Name + ": " + s
	}
	return s
}
