// Package tabstream contains the core components of tabstream, a library for
// streaming tabular files to consumers in bounded-memory row chunks, with an
// optional per-chunk transformation applied along the way. This root package
// defines the types which are shared between data sources, transforms and the
// pipeline runner, and is a good overview of tabstream's key concepts.
package tabstream
