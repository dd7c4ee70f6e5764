package document

// Symbol is one insertable LaTeX snippet in the editor toolbar.
type Symbol struct {
	LaTeX string `json:"latex"`
	Label string `json:"label"`
}

// SymbolCategory groups related snippets under a tab name.
type SymbolCategory struct {
	Name    string   `json:"name"`
	Symbols []Symbol `json:"symbols"`
}

var symbolCatalog = []SymbolCategory{
	{Name: "Basic operations", Symbols: []Symbol{
		{`a + b - c`, "Addition and subtraction"},
		{`a \times b`, "Multiplication"},
		{`a \div b`, "Division"},
		{`a \pm b`, "Plus or minus"},
		{`a = b`, "Equals"},
		{`a \neq b`, "Not equal"},
		{`a \leq b`, "Less than or equal"},
		{`a \geq b`, "Greater than or equal"},
	}},
	{Name: "Fractions and roots", Symbols: []Symbol{
		{`\frac{a}{b}`, "Fraction"},
		{`\frac{a+b}{c+d}`, "Compound fraction"},
		{`\sqrt{x}`, "Square root"},
		{`\sqrt[3]{x}`, "Cube root"},
		{`\sqrt{a+b}`, "Root of a sum"},
	}},
	{Name: "Exponents and logarithms", Symbols: []Symbol{
		{`x^2`, "Square"},
		{`x^{n}`, "Power"},
		{`x^{a+b}`, "Compound exponent"},
		{`x_1`, "Subscript"},
		{`x_{i+1}`, "Compound subscript"},
		{`\log x`, "Logarithm"},
		{`\ln x`, "Natural logarithm"},
		{`\log_2 x`, "Base 2 logarithm"},
	}},
	{Name: "Trigonometry", Symbols: []Symbol{
		{`\sin x`, "Sine"},
		{`\cos x`, "Cosine"},
		{`\tan x`, "Tangent"},
		{`\sin^2 x`, "Sine squared"},
		{`\sin(x + y)`, "Sine of a sum"},
	}},
	{Name: "Sums and integrals", Symbols: []Symbol{
		{`\sum_{i=1}^{n} x_i`, "Sum"},
		{`\prod_{i=1}^{n} x_i`, "Product"},
		{`\int f(x) dx`, "Indefinite integral"},
		{`\int_{a}^{b} f(x) dx`, "Definite integral"},
		{`\lim_{x \to 0} f(x)`, "Limit"},
	}},
	{Name: "Greek letters", Symbols: []Symbol{
		{`\alpha`, "α"},
		{`\beta`, "β"},
		{`\gamma`, "γ"},
		{`\delta`, "δ"},
		{`\pi`, "π"},
		{`\theta`, "θ"},
		{`\lambda`, "λ"},
		{`\mu`, "μ"},
	}},
}

// Symbols returns a copy of the math symbol catalog.
func Symbols() []SymbolCategory {
	out := make([]SymbolCategory, len(symbolCatalog))
	for i, c := range symbolCatalog {
		out[i] = SymbolCategory{Name: c.Name, Symbols: append([]Symbol(nil), c.Symbols...)}
	}
	return out
}
