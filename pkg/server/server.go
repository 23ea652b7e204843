package server

import (
	"errors"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/dictautocomp/internal/logger"
	"github.com/bastiangx/dictautocomp/pkg/completion"
	"github.com/bastiangx/dictautocomp/pkg/config"
	"github.com/bastiangx/dictautocomp/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for word completions
type Server struct {
	registry     *completion.Registry
	config       *config.Config
	configPath   string
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a completion server using stdin/stdout for IPC
func NewServer(registry *completion.Registry, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(registry, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a completion server reading requests from r and writing responses to w.
// An empty configPath keeps registrations in memory only.
func NewServerWithIO(registry *completion.Registry, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		registry:   registry,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
		logger:     logger.New("ipc"),
	}
}

// Start serves requests until the input stream ends
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		// decode one whole value first so a malformed request does not desync the stream
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}
		s.requestCount++

		var request Request
		if err := msgpack.Unmarshal(raw, &request); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(request)
	}
}

// handleRequest routes a request by op
func (s *Server) handleRequest(request Request) {
	switch request.Op {
	case OpHealth:
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	case OpActivate:
		s.handleActivate(request)
	case OpComplete:
		s.handleComplete(request)
	case OpAdd:
		s.handleAdd(request)
	case OpRemove:
		s.handleRemove(request)
	case OpContains:
		s.handleContains(request)
	case OpDump:
		s.handleDump(request)
	case OpDicts:
		s.handleDicts(request)
	case OpRegister:
		s.handleRegister(request)
	default:
		s.sendError(request.ID, "Unknown op: "+request.Op, 400)
	}
}

// sendResponse encodes one response onto the output stream
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}

// sendLookupError maps registry errors onto response codes
func (s *Server) sendLookupError(id string, err error) {
	if errors.Is(err, completion.ErrNoCompleter) {
		s.sendError(id, err.Error(), 404)
		return
	}
	s.sendError(id, err.Error(), 500)
}

func (s *Server) activeFile() string {
	if c := s.registry.Active(); c != nil {
		return c.File()
	}
	return ""
}

func (s *Server) handleActivate(request Request) {
	if request.File == "" {
		s.sendError(request.ID, "Missing 'f' parameter", 400)
		return
	}
	s.registry.Activate(request.File)
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Active: s.activeFile()})
}

// handleComplete validates the prefix, clamps the limit to the configured
// maximum and completes with the active word list. Setting f activates the
// word list for that file first.
func (s *Server) handleComplete(request Request) {
	if request.File != "" {
		s.registry.Activate(request.File)
	}

	prefix := request.Prefix
	maxPrefix := s.config.Server.MaxPrefix
	if maxPrefix > 0 && utf8.RuneCountInString(prefix) > maxPrefix {
		s.sendError(request.ID, "Prefix exceeds maximum length", 400)
		s.logger.Debug("Prefix is too long in request", "length", utf8.RuneCountInString(prefix))
		return
	}

	limit := request.Limit
	if maxLimit := s.config.Server.MaxLimit; maxLimit > 0 && (limit < 1 || limit > maxLimit) {
		limit = maxLimit
	}

	start := time.Now()
	res, ok := s.registry.Complete(prefix, limit)
	elapsed := time.Since(start)
	if !ok {
		s.sendError(request.ID, "No active dictionary", 404)
		return
	}

	words := res.Words
	if words == nil {
		words = []string{}
	}
	s.logger.Debugf("Completed %q from %s: %d words in %v", prefix, res.File, len(words), elapsed)

	s.sendResponse(CompletionResponse{
		ID:          request.ID,
		Suggestions: words,
		Count:       len(words),
		IgnoreCase:  res.IgnoreCase,
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleAdd(request Request) {
	if err := s.registry.AddWords(request.Dict, request.Words); err != nil {
		s.sendLookupError(request.ID, err)
		return
	}
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
}

// handleRemove reports words a case sensitive list did not hold
func (s *Server) handleRemove(request Request) {
	missing, err := s.registry.RemoveWords(request.Dict, request.Words)
	if err != nil {
		s.sendLookupError(request.ID, err)
		return
	}
	status := "ok"
	if len(missing) > 0 {
		status = "partial"
	}
	s.sendResponse(StatusResponse{ID: request.ID, Status: status, Missing: missing})
}

func (s *Server) handleContains(request Request) {
	found, err := s.registry.ContainsWords(request.Dict, request.Words)
	if err != nil {
		s.sendLookupError(request.ID, err)
		return
	}
	s.sendResponse(ContainsResponse{ID: request.ID, Found: found})
}

func (s *Server) handleDump(request Request) {
	dump, err := s.registry.Dump(request.Dict)
	if err != nil {
		s.sendLookupError(request.ID, err)
		return
	}
	s.sendResponse(DumpResponse{ID: request.ID, Dump: dump})
}

func (s *Server) handleDicts(request Request) {
	infos := s.registry.Info()
	out := make([]DictionaryInfo, len(infos))
	for i, info := range infos {
		out[i] = DictionaryInfo{
			File:       info.File,
			Rule:       info.Rule,
			IgnoreCase: info.IgnoreCase,
			MinLength:  info.MinLength,
			Words:      info.Words,
			Active:     info.Active,
		}
	}
	s.sendResponse(DictionaryResponse{ID: request.ID, Dictionaries: out})
}

// handleRegister adds or removes a word list and persists the settings
func (s *Server) handleRegister(request Request) {
	d := request.Dictionary
	if d == nil || d.File == "" {
		s.sendError(request.ID, "Missing 'd.file' parameter", 400)
		return
	}
	file := config.ResolveFile(config.DictionaryConfig{File: d.File}, s.configPath)

	if d.Remove {
		unregistered := s.registry.Unregister(file)
		dropped := s.config.RemoveDictionary(file, s.configPath)
		if !unregistered && !dropped {
			s.sendError(request.ID, "Unknown dictionary: "+d.File, 404)
			return
		}
		s.persist()
		s.sendResponse(StatusResponse{ID: request.ID, Status: "removed", Active: s.activeFile()})
		return
	}

	c, err := completion.New(completion.Options{
		File:       file,
		Extensions: d.Extensions,
		Pattern:    d.Pattern,
		IgnoreCase: d.IgnoreCase,
		MinLength:  d.MinLength,
	})
	if err != nil {
		code := 400
		if errors.Is(err, dictionary.ErrMissingFile) {
			code = 404
		}
		s.logger.Warnf("Register %s: %v", file, err)
		s.sendError(request.ID, err.Error(), code)
		return
	}

	s.registry.Register(c)
	opts := c.Options()
	// keep the path as the client wrote it so relative entries stay relative
	s.config.AddDictionary(config.DictionaryConfig{
		File:       d.File,
		Extensions: opts.Extensions,
		Pattern:    opts.Pattern,
		IgnoreCase: opts.IgnoreCase,
		MinLength:  opts.MinLength,
	})
	s.persist()
	s.sendResponse(StatusResponse{ID: request.ID, Status: "registered", Active: s.activeFile()})
}

// persist writes the settings back when the server was started with a config file
func (s *Server) persist() {
	if s.configPath == "" {
		return
	}
	if err := config.SaveConfig(s.config, s.configPath); err != nil {
		s.logger.Errorf("Saving config to %s: %v", s.configPath, err)
	}
}
