package core

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const defaultLocaleTag = "en"

// credentialPrompts renders the password prompt a localized system prints
// for a user.
var credentialPrompts = map[string]func(user string) string{
	"en": func(user string) string { return fmt.Sprintf("password for %s:", user) },
	"ja": func(user string) string { return fmt.Sprintf("%s のパスワード:", user) },
}

// LocaleTag extracts the language of the message locale from the output
// of `locale`.  C and POSIX map to English.
func LocaleTag(output string) string {
	values := map[string]string{}
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		values[key] = strings.Trim(value, `"`)
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := values[key]
		if value == "" {
			continue
		}
		if value == "C" || value == "POSIX" || strings.HasPrefix(value, "C.") {
			return defaultLocaleTag
		}
		tag, _, _ := strings.Cut(value, "_")
		tag, _, _ = strings.Cut(tag, ".")
		return strings.ToLower(tag)
	}
	return defaultLocaleTag
}

// CredentialPrompt returns the prompt text expected for tag, falling back
// to English for unknown locales.
func CredentialPrompt(tag string, user string) string {
	render, ok := credentialPrompts[tag]
	if !ok {
		render = credentialPrompts[defaultLocaleTag]
	}
	return render(user)
}

// WaitForPrompt consumes r until prompt has been seen.
func WaitForPrompt(ctx context.Context, r io.Reader, prompt string) error {
	found := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(r)
		var seen strings.Builder
		for {
			b, err := reader.ReadByte()
			if err != nil {
				found <- errbuilder.New().
					WithCode(errbuilder.CodeNotFound).
					WithMsg(fmt.Sprintf("prompt %q not seen", prompt)).
					WithCause(err)
				return
			}
			seen.WriteByte(b)
			if strings.Contains(seen.String(), prompt) {
				found <- nil
				return
			}
		}
	}()
	select {
	case err := <-found:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
