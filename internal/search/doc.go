// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package search implements keyword search over films, users and tags.

A search runs in two phases:

 1. Candidate generation. The query and each of its tokens are looked up in the text
    indexes by prefix and by bounded edit distance. Films released in a year mentioned
    in the query are added as well.
 2. Re-ranking. Film candidates are scored by Scorer, which blends title, director,
    genre, year, rating and popularity signals. Users and tags are scored on their name
    alone.

Indexes are built once per catalog snapshot by Engine.BuildIndexes and may be shared
between concurrent searches.
*/
package search
