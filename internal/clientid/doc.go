// Package clientid encodes and decodes the composite client identifier.
//
// A client id is "<sanitizedName>_<YYYY-MM-DD>_<millis>". The name segment may
// itself contain underscores, so decoding pops the timestamp and date from the
// right and treats the remainder as the name. That positional contract is the
// only thing that makes ids with underscored names unambiguous; keep it when
// touching this package.
package clientid
