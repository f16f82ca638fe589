package client

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/go-wamp/session/wamp"
	"github.com/go-wamp/session/wamp/crsign"
	"golang.org/x/crypto/nacl/sign"
)

// Auth supplies the authid/authmethods a session presents in HELLO, and the
// responder invoked if the router sends back a CHALLENGE.
type Auth struct {
	// AuthID is the identity the session is requesting to authenticate as.
	AuthID string

	// AuthMethods lists, in preference order, the auth methods the session
	// is willing to perform. Exactly one must match the method named in the
	// router's CHALLENGE.
	AuthMethods []string

	// Respond computes the AUTHENTICATE signature for a CHALLENGE naming
	// method with the given extra detail. It returns the signature and any
	// additional Extra to send back; a nil Extra sends an empty dict.
	Respond func(method string, extra wamp.Dict) (signature string, responseExtra wamp.Dict, err error)
}

func (a *Auth) helloDetails() wamp.Dict {
	return wamp.Dict{
		"authid":      a.AuthID,
		"authmethods": a.AuthMethods,
	}
}

// TicketAuth authenticates with the "ticket" method, sending the fixed
// ticket string back in response to every CHALLENGE.
func TicketAuth(authID, ticket string) *Auth {
	return &Auth{
		AuthID:      authID,
		AuthMethods: []string{"ticket"},
		Respond: func(method string, extra wamp.Dict) (string, wamp.Dict, error) {
			return ticket, nil, nil
		},
	}
}

// CRAAuth authenticates with the "wampcra" method, computing the response
// as HMAC-SHA256 of the CHALLENGE's "challenge" extra field, keyed by
// secret.
func CRAAuth(authID, secret string) *Auth {
	return &Auth{
		AuthID:      authID,
		AuthMethods: []string{"wampcra"},
		Respond: func(method string, extra wamp.Dict) (string, wamp.Dict, error) {
			ch, _ := wamp.AsString(extra["challenge"])
			if ch == "" {
				return "", nil, fmt.Errorf("wampcra: CHALLENGE missing challenge string")
			}
			return crsign.SignChallenge(ch, []byte(secret)), nil, nil
		},
	}
}

// CryptoSignAuth authenticates with the "cryptosign" method, signing the
// hex-encoded challenge with privateKey (a nacl/sign Ed25519 private key)
// and returning the hex-encoded signed message with the challenge appended,
// as required by the cryptosign auth method.
func CryptoSignAuth(authID string, privateKey *[64]byte) *Auth {
	return &Auth{
		AuthID:      authID,
		AuthMethods: []string{"cryptosign"},
		Respond: func(method string, extra wamp.Dict) (string, wamp.Dict, error) {
			ch, _ := wamp.AsString(extra["challenge"])
			raw, err := hex.DecodeString(ch)
			if err != nil {
				return "", nil, fmt.Errorf("cryptosign: invalid challenge: %w", err)
			}
			signed := sign.Sign(nil, raw, privateKey)
			// Router expects the signature concatenated with the signed
			// message, both hex-encoded; nacl/sign.Sign already prepends
			// the signature to the message it signs.
			return hex.EncodeToString(signed), nil, nil
		},
	}
}

// NewCryptoSignKeyPair generates a fresh Ed25519 keypair suitable for
// CryptoSignAuth.
func NewCryptoSignKeyPair() (publicKey *[32]byte, privateKey *[64]byte, err error) {
	return sign.GenerateKey(rand.Reader)
}
