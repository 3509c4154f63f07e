package features

import "errors"

// ErrInitialization marks a fatal failure to build an Extractor: a missing
// sentiment scorer or unusable lexicons. It is never returned per article.
var ErrInitialization = errors.New("feature extractor initialization failed")
