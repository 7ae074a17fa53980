package poap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the closed classification of vendor failures. The orchestrator
// branches on kinds only; the substring heuristics over vendor messages live
// in classifyMessage and nowhere else.
type ErrorKind int

const (
	// KindTransport covers network failures and any non-2xx status that does
	// not fit a more specific kind. Never retried.
	KindTransport ErrorKind = iota

	// KindBadResponse means the vendor answered 2xx but the body was not in
	// the expected shape.
	KindBadResponse

	// KindNotFound is a vendor 404 on the requested resource.
	KindNotFound

	// KindAlreadyClaimed means the code was redeemed by someone between our
	// status check and our claim attempt. Expected under contention.
	KindAlreadyClaimed

	// KindAlreadyMinted means the destination address already holds a token
	// of this event.
	KindAlreadyMinted

	// KindNotConfigured means vendor credentials or the event mapping are
	// incomplete. Fatal for the whole mint capability.
	KindNotConfigured
)

type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, status int, format string, a ...any) Error {
	return Error{Kind: kind, StatusCode: status, Message: fmt.Sprintf(format, a...)}
}

// alreadyMintedPhrases are the vendor wordings observed for the
// one-claim-per-address rejection. The bare "drop" match is as loose as it
// looks; it mirrors what the vendor actually sends today and is a known
// fragility against wording changes.
var alreadyMintedPhrases = []string{
	"already minted",
	"you already minted",
	"you have already minted",
	"user already has",
	"already have",
	"drop",
}

func classifyMessage(status int, message string) ErrorKind {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "already claimed") {
		return KindAlreadyClaimed
	}

	for _, phrase := range alreadyMintedPhrases {
		if strings.Contains(lower, phrase) {
			return KindAlreadyMinted
		}
	}

	if status == 404 {
		return KindNotFound
	}

	return KindTransport
}

// IsAlreadyClaimed reports whether err is the race outcome of a single code:
// it was redeemed by another party between check and claim. The claim loop
// skips to the next candidate on this.
func IsAlreadyClaimed(err error) bool {
	var poapErr Error
	return errors.As(err, &poapErr) && poapErr.Kind == KindAlreadyClaimed
}

// IsAlreadyMintedClass reports whether err indicates the address already
// holds the token, in any of the vendor's phrasings. This is the trigger for
// ownership recovery at the top of the mint flow.
func IsAlreadyMintedClass(err error) bool {
	var poapErr Error
	if !errors.As(err, &poapErr) {
		return false
	}

	return poapErr.Kind == KindAlreadyClaimed || poapErr.Kind == KindAlreadyMinted
}

// IsNotConfigured reports whether err is a configuration failure rather than
// a per-request one.
func IsNotConfigured(err error) bool {
	var poapErr Error
	return errors.As(err, &poapErr) && poapErr.Kind == KindNotConfigured
}
