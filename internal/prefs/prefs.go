// Package prefs keeps user preferences in the key/value store. Today that is
// the interface language.
package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/kv"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Fallback is used when nothing better is known.
var Fallback = language.English

var supportedCodes = []string{
	"en", "am", "ar", "arc", "az", "be", "bg", "ckb", "crs", "cs", "da",
	"de", "el", "es", "et", "fa", "fi", "fr", "ha", "haw",
	"he", "hi", "hr", "ht", "hu", "hy", "id", "ig", "it", "ja",
	"ka", "kk", "kl", "km", "ko", "ks", "ky", "ln", "lo", "lt",
	"lv", "mi", "mn", "ms", "ne", "nl", "no", "pl", "ps",
	"pt", "ro", "ru", "sd", "sk", "sl", "so", "sq", "sr", "sv",
	"sw", "syr", "tg", "th", "tk", "tl", "tpi", "tr", "ug", "uk",
	"ur", "uz", "vi", "wo", "xh", "yo", "zh", "zu",
}

// Supported lists the interface languages, fallback first.
var Supported = func() []language.Tag {
	tags := make([]language.Tag, len(supportedCodes))
	for i, code := range supportedCodes {
		tags[i] = language.MustParse(code)
	}
	return tags
}()

var matcher = language.NewMatcher(Supported)

var rtl = map[string]bool{
	"ug": true, "syr": true, "ks": true, "ar": true, "fa": true, "he": true,
	"ur": true, "ckb": true, "arc": true, "sd": true, "ps": true,
}

// Store reads and writes preferences.
type Store struct {
	kv kv.Store
}

// New creates a preference store.
func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Language returns the saved language, or the best match for env (a POSIX
// locale such as "de_DE.UTF-8") when none is saved.
func (s *Store) Language(ctx context.Context, env string) (language.Tag, error) {
	value, ok, err := s.kv.Get(ctx, kv.KeyLanguage)
	if err != nil {
		return Detect(env), errs.Wrap(errs.Storage, "read language preference", err)
	}
	if ok {
		if tag, err := normalize(value); err == nil {
			return tag, nil
		}
	}
	return Detect(env), nil
}

// SetLanguage validates and saves code. The language is stored without
// region, the way the interface loads translations.
func (s *Store) SetLanguage(ctx context.Context, code string) (language.Tag, error) {
	tag, err := normalize(code)
	if err != nil {
		return language.Und, err
	}
	if err := s.kv.Set(ctx, kv.KeyLanguage, tag.String()); err != nil {
		return language.Und, errs.Wrap(errs.Storage, "save language preference", err)
	}
	return tag, nil
}

func normalize(code string) (language.Tag, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return language.Und, errs.Wrap(errs.Validation, fmt.Sprintf("invalid language %q", code), err)
	}
	base, _ := tag.Base()
	for _, t := range Supported {
		if b, _ := t.Base(); b == base {
			return t, nil
		}
	}
	return language.Und, errs.New(errs.Validation, fmt.Sprintf("unsupported language %q", code))
}

// Detect maps a POSIX locale to the closest supported language.
func Detect(env string) language.Tag {
	env = strings.TrimSpace(env)
	if i := strings.IndexAny(env, ".@"); i >= 0 {
		env = env[:i]
	}
	if env == "" || env == "C" || env == "POSIX" {
		return Fallback
	}
	tag, err := language.Parse(strings.ReplaceAll(env, "_", "-"))
	if err != nil {
		return Fallback
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return Fallback
	}
	return Supported[index]
}

// Direction is "rtl" for right-to-left scripts, otherwise "ltr".
func Direction(tag language.Tag) string {
	base, _ := tag.Base()
	if rtl[base.String()] {
		return "rtl"
	}
	return "ltr"
}

// DisplayName is the language's own name for itself.
func DisplayName(tag language.Tag) string {
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return tag.String()
}
