// Package cli handles cmd line input and completions for DBG and testing word lists
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/dictautocomp/internal/logger"
	"github.com/bastiangx/dictautocomp/internal/utils"
	"github.com/bastiangx/dictautocomp/pkg/completion"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	fileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

// InputHandler reads lines and completes them with the active word list.
// Lines starting with ':' are commands:
//
//	:open <filename>  activate the word list serving filename
//	:dump             print the active trie
//	:dicts            list registered word lists
//	:save <path>      write the active word list to path, sorted
type InputHandler struct {
	registry        *completion.Registry
	in              io.Reader
	out             *log.Logger
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	requestCount    int
	noFilter        bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(registry *completion.Registry, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return NewInputHandlerWithIO(registry, minLength, maxLength, limit, noFilter, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO is NewInputHandler reading from r and printing to w
func NewInputHandlerWithIO(registry *completion.Registry, minLength, maxLength, limit int, noFilter bool, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		registry:        registry,
		in:              r,
		out:             logger.NewWithWriter(w, ""),
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
	}
}

// Start begins the interface loop. It returns nil once input ends.
func (h *InputHandler) Start() error {
	h.out.Print("dictautocomp CLI [BETA]")
	h.out.Print("type ':open <file>' to pick a word list, then a prefix and Enter (Ctrl+C to exit):")
	if c := h.registry.Active(); c != nil {
		h.out.Printf("Active: %s", fileStyle.Render(c.File()))
	}

	reader := bufio.NewReader(h.in)
	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleLine(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleLine(line string) {
	switch {
	case strings.HasPrefix(line, ":open"):
		h.open(strings.TrimSpace(strings.TrimPrefix(line, ":open")))
	case line == ":dump":
		dump, err := h.registry.Dump("")
		if err != nil {
			h.out.Error("Nothing to dump", "err", err)
			return
		}
		h.out.Print(dump)
	case line == ":dicts":
		h.listDicts()
	case strings.HasPrefix(line, ":save"):
		h.save(strings.TrimSpace(strings.TrimPrefix(line, ":save")))
	default:
		h.handleInput(line)
	}
}

func (h *InputHandler) open(filename string) {
	if filename == "" {
		h.out.Error("Usage: :open <filename>")
		return
	}
	c := h.registry.Activate(filename)
	if c == nil {
		h.out.Warnf("No word list for %s", filename)
		return
	}
	h.out.Printf("Active: %s (%d words)", fileStyle.Render(c.File()), c.Len())
}

func (h *InputHandler) save(path string) {
	if path == "" {
		h.out.Error("Usage: :save <path>")
		return
	}
	if err := h.registry.Save("", path); err != nil {
		h.out.Error("Save failed", "err", err)
		return
	}
	h.out.Printf("Saved to %s", path)
}

func (h *InputHandler) listDicts() {
	infos := h.registry.Info()
	if len(infos) == 0 {
		h.out.Warn("No word lists registered")
		return
	}
	for i, info := range infos {
		marker := " "
		if info.Active {
			marker = "*"
		}
		h.out.Printf("%s%2d. %s rule=%s ignore_case=%t min_length=%d words=%d",
			marker, i+1, fileStyle.Render(info.File), info.Rule, info.IgnoreCase, info.MinLength, info.Words)
	}
}

// handleInput validates the prefix length and content, then prints the
// completions of the active word list
func (h *InputHandler) handleInput(prefix string) {
	h.requestCount++

	n := utf8.RuneCountInString(prefix)
	if n < h.minPrefixLength {
		h.out.Errorf("Prefix too short: %s", prefix)
		return
	}
	if h.maxPrefixLength > 0 && n > h.maxPrefixLength {
		h.out.Errorf("Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless -no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidInput(prefix) {
			h.out.Infof("No results found for prefix: '%s'", prefix)
			return
		}
	} else {
		log.Debug("Input filtering disabled")
	}

	start := time.Now()
	res, ok := h.registry.Complete(prefix, h.suggestLimit)
	elapsed := time.Since(start)
	if !ok {
		h.out.Warn("No active word list, use :open <filename>")
		return
	}
	log.Debugf("Took [ %v ] for prefix '%s' (request %d)", elapsed, prefix, h.requestCount)

	if len(res.Words) == 0 {
		h.out.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	h.out.Printf("Found %d suggestions for prefix '%s':", len(res.Words), prefix)
	for i, w := range res.Words {
		h.out.Printf("%2d. %s", i+1, wordStyle.Render(w))
	}
}
