/*
Package server implements msgpack IPC for editor integrations.

Clients write a stream of msgpack encoded requests to stdin and read one
response per request from stdout. Each request carries an ID echoed in its
response and an op naming the operation.

On startup the server writes a status message:

	{"id": "", "status": "ready"}

A plugin activates a word list when the user switches files, then asks for
completions of the fragment under the cursor:

	{"id": "1", "op": "activate", "f": "/home/me/notes.md"}
	{"id": "2", "op": "complete", "p": "dog", "l": 20}

The completion response lists words in trie order and tells the plugin
whether the list matched case-insensitively:

	{"id": "2", "s": ["dog", "dogged"], "c": 2, "i": true, "t": 41}

Word list management:

	{"id": "3", "op": "add", "w": ["doggo"]}
	{"id": "4", "op": "remove", "w": ["dog"], "dict": "/usr/share/dict/words"}
	{"id": "5", "op": "contains", "w": ["dog", "cat"]}
	{"id": "6", "op": "dump"}
	{"id": "7", "op": "dicts"}
	{"id": "8", "op": "register", "d": {"file": "/tmp/enums.txt", "pattern": "\\.py$", "min_length": 3}}

Failed requests get a CompletionError with an HTTP-like code.
*/
package server

// Request ops
const (
	OpHealth   = "health"
	OpActivate = "activate"
	OpComplete = "complete"
	OpAdd      = "add"
	OpRemove   = "remove"
	OpContains = "contains"
	OpDump     = "dump"
	OpDicts    = "dicts"
	OpRegister = "register"
)

// Request is the envelope for every incoming message
type Request struct {
	ID         string             `msgpack:"id"`
	Op         string             `msgpack:"op"`
	Prefix     string             `msgpack:"p,omitempty"`
	File       string             `msgpack:"f,omitempty"`
	Words      []string           `msgpack:"w,omitempty"`
	Limit      int                `msgpack:"l,omitempty"`
	Dict       string             `msgpack:"dict,omitempty"`
	Dictionary *DictionaryOptions `msgpack:"d,omitempty"`
}

// DictionaryOptions registers a word list, or unregisters it when Remove is set
type DictionaryOptions struct {
	File       string   `msgpack:"file"`
	Extensions []string `msgpack:"extensions,omitempty"`
	Pattern    string   `msgpack:"pattern,omitempty"`
	IgnoreCase bool     `msgpack:"ignore_case"`
	MinLength  int      `msgpack:"min_length"`
	Remove     bool     `msgpack:"remove,omitempty"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string   `msgpack:"id"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
	IgnoreCase  bool     `msgpack:"i"`
	TimeTaken   int64    `msgpack:"t"`
}

// StatusResponse acknowledges health, activate, add, remove and register
type StatusResponse struct {
	ID      string   `msgpack:"id"`
	Status  string   `msgpack:"status"`
	Active  string   `msgpack:"active,omitempty"`
	Missing []string `msgpack:"missing,omitempty"`
}

// ContainsResponse holds one flag per requested word
type ContainsResponse struct {
	ID    string `msgpack:"id"`
	Found []bool `msgpack:"found"`
}

// DumpResponse carries the debug view of a trie
type DumpResponse struct {
	ID   string `msgpack:"id"`
	Dump string `msgpack:"dump"`
}

// DictionaryInfo describes one registered word list
type DictionaryInfo struct {
	File       string `msgpack:"file"`
	Rule       string `msgpack:"rule"`
	IgnoreCase bool   `msgpack:"ignore_case"`
	MinLength  int    `msgpack:"min_length"`
	Words      int    `msgpack:"words"`
	Active     bool   `msgpack:"active"`
}

// DictionaryResponse lists registered word lists
type DictionaryResponse struct {
	ID           string           `msgpack:"id"`
	Dictionaries []DictionaryInfo `msgpack:"dictionaries"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
