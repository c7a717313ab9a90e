package header

import (
	"strings"

	"github.com/zostay/go-addr/pkg/addr"
)

// ParseAddressList parses an address field body. It tries a strict parse
// first. When that fails it falls back to a very lenient one, which returns
// something for any input even when the result is a little weird.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}

	return al
}

// Unique concatenates the given lists and drops any address whose email
// address, compared without regard to case, was already seen. Order of first
// appearance is kept.
func Unique(lists ...addr.AddressList) addr.AddressList {
	var (
		out  addr.AddressList
		seen = map[string]struct{}{}
	)

	for _, al := range lists {
		for _, a := range al {
			key := strings.ToLower(a.Address())
			if key == "" {
				key = strings.ToLower(a.CleanString())
			}

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
			out = append(out, a)
		}
	}

	return out
}

// parseEmailAddressList is the fallback for address fields that the strict
// parser rejects. It works as follows:
//
// 1. Split the string up by commas.
// 2. Strip and hold the comments of each piece.
// 3. Treat all the words but the last as the display name.
// 4. Treat the last word as the email address.
//
// Groups are never recognized.
func parseEmailAddressList(v string) addr.AddressList {
	mbs := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(mbs))
	for _, orig := range mbs {
		mb, com := extractComments(orig)

		mb = strings.TrimSpace(mb)
		com = strings.TrimSpace(com)

		parts := strings.Fields(mb)

		var dn, email string
		switch {
		case len(parts) == 0:
			continue
		case len(parts) > 1:
			dn = strings.Join(parts[:len(parts)-1], " ")
			email = parts[len(parts)-1]
		default:
			email = parts[0]
		}

		email = strings.TrimSuffix(strings.TrimPrefix(email, "<"), ">")
		if email == "" {
			continue
		}

		var addrSpec *addr.AddrSpec
		if i := strings.LastIndex(email, "@"); i > -1 {
			addrSpec = addr.NewAddrSpecParsed(email[:i], email[i+1:], email)
		} else {
			addrSpec = addr.NewAddrSpecParsed(email, "", email)
		}

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, com, orig)
		if err != nil {
			mailbox, _ = addr.NewMailboxParsed(dn, addrSpec, "", orig)
		}

		as = append(as, mailbox)
	}

	return as
}

// extractComments splits s into the text outside of parentheses and the text
// inside them. Nested parentheses are kept in the comment.
func extractComments(s string) (string, string) {
	var clean, comment strings.Builder
	nestLevel := 0
	for _, c := range s {
		switch {
		case c == '(':
			nestLevel++
			if nestLevel > 1 {
				comment.WriteRune(c)
			}
		case c == ')':
			nestLevel--
			switch {
			case nestLevel == 0:
			case nestLevel < 0:
				nestLevel = 0
				clean.WriteRune(c)
			default:
				comment.WriteRune(c)
			}
		case nestLevel > 0:
			comment.WriteRune(c)
		default:
			clean.WriteRune(c)
		}
	}

	return clean.String(), comment.String()
}
