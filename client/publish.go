package client

import (
	"context"

	"github.com/go-wamp/session/wamp"
)

// Publish sends a publication to uri and waits for the router's
// acknowledgement, returning the assigned publication id.
func (s *Session) Publish(ctx context.Context, uri wamp.URI, args wamp.List, kwargs wamp.Dict) (wamp.ID, error) {
	reqID := s.nextID()
	reply, err := s.expectOne(ctx, reqID, &wamp.Publish{
		Request:     reqID,
		Options:     wamp.Dict{wamp.OptAcknowledge: true},
		Topic:       uri,
		Arguments:   args,
		ArgumentsKw: kwargs,
	})
	if err != nil {
		return 0, err
	}
	switch v := reply.(type) {
	case *wamp.Published:
		return v.Publication, nil
	case *wamp.Error:
		return 0, &OperationError{Details: v.Details, URI: v.Error, Args: v.Arguments, Kwargs: v.ArgumentsKw}
	}
	return 0, unexpectedMessageError(reply, wamp.PUBLISHED)
}
