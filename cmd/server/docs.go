// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// General API information for swag.
//
// @title Swapmatch API
// @version 1.0
// @description Ranked item and bundle recommendations for peer-to-peer swaps.
// @description
// @description ## Error Responses
// @description
// @description Every response uses the envelope {"status", "data", "error", "metadata"}.
// @description Errors carry a machine-readable code such as VALIDATION_ERROR, RATE_LIMITED or RECOMMEND_UNAVAILABLE.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/swapmatch/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health and service status
//
// @tag.name Recommendations
// @tag.description Ranked items and synthesized bundles
//
// @tag.name Weights
// @tag.description Scoring weight inspection and updates
package main
