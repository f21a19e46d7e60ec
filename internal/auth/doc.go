// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

/*
Package auth provides the service credential used for item-store queries.

The recommendation engine never talks to the item store directly. Every query
runs through an Executor, which guarantees a valid credential before the query
function runs and, when the store rejects the credential with ErrUnauthorized,
refreshes it once and retries once.

Credentials are short-lived HS256 JWTs minted by a TokenSource:

	tokens, err := auth.NewTokenSource(auth.Config{
	    Secret:   cfg.Auth.Secret, // at least 32 characters
	    Issuer:   "swapmatch",
	    Subject:  "recommend-engine",
	    TokenTTL: 15 * time.Minute,
	})
	exec := auth.NewExecutor(tokens, logger)

	err = exec.Call(ctx, func(ctx context.Context, token string) error {
	    items, err = store.OwnedItems(ctx, token, userID)
	    return err
	})

The store side validates with TokenSource.Verify, which wraps every failure
in ErrUnauthorized.
*/
package auth
