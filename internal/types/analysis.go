package types

import (
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	porterfilter "github.com/blevesearch/bleve/v2/analysis/token/porter"
)

// Tokenizer splits text into raw tokens.
type Tokenizer func(text string) []string

// AlphaNumeric splits on every rune that is neither a letter nor a digit.
func AlphaNumeric(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Whitespace splits on Unicode white space only.
func Whitespace(text string) []string {
	return strings.Fields(text)
}

// Stemmer reduces a term to its stem.
type Stemmer func(term string) string

var porter = porterfilter.NewPorterStemmer()

// Porter is the English Porter stemmer. It does not change case.
func Porter(term string) string {
	out := porter.Filter(analysis.TokenStream{{Term: []byte(term)}})
	return string(out[0].Term)
}

// EnglishStopwords is the default stopword list.
var EnglishStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "if", "in",
	"into", "is", "it", "no", "not", "of", "on", "or", "such", "that", "the",
	"their", "then", "there", "these", "they", "this", "to", "was", "will", "with",
}

// Analyzer turns text into index terms: tokenize, optionally lowercase,
// drop stopwords, then optionally stem. Stopwords match regardless of case.
type Analyzer struct {
	tokenize  Tokenizer
	lowercase bool
	stop      map[string]struct{}
	stem      Stemmer
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithTokenizer replaces the tokenizer.
func WithTokenizer(t Tokenizer) AnalyzerOption {
	return func(a *Analyzer) { a.tokenize = t }
}

// WithLowercase toggles the lowercase filter.
func WithLowercase(on bool) AnalyzerOption {
	return func(a *Analyzer) { a.lowercase = on }
}

// WithStopwords replaces the stopword list. An empty list disables the filter.
func WithStopwords(words []string) AnalyzerOption {
	return func(a *Analyzer) {
		a.stop = make(map[string]struct{}, len(words))
		for _, w := range words {
			a.stop[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithStemmer stems every term that survives the stopword filter. Nil
// disables stemming.
func WithStemmer(s Stemmer) AnalyzerOption {
	return func(a *Analyzer) { a.stem = s }
}

// NewAnalyzer creates an analyzer. Defaults: AlphaNumeric, lowercase on,
// EnglishStopwords.
func NewAnalyzer(opts ...AnalyzerOption) Analyzer {
	a := Analyzer{tokenize: AlphaNumeric, lowercase: true}
	WithStopwords(EnglishStopwords)(&a)
	for _, o := range opts {
		o(&a)
	}
	return a
}

// Analyze returns the terms of text in order, repeats included.
func (a Analyzer) Analyze(text string) []string {
	raw := a.tokenize(text)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if a.lowercase {
			tok = strings.ToLower(tok)
		}
		if _, stop := a.stop[strings.ToLower(tok)]; stop {
			continue
		}
		if a.stem != nil {
			tok = a.stem(tok)
		}
		out = append(out, tok)
	}
	return out
}
