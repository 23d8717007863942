package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"gfascope/gfa"
	"gfascope/internal/history"
	"gfascope/work"
)

// ---------------------------------------------------------------------------
// Deferred app commands
// ---------------------------------------------------------------------------
// Action effects and background tasks never touch the model directly. They
// push one of these into the command queue and the frame loop drains the
// queue, in push order, at the start of the next frame.

type appMsg interface {
	isAppMsg()
}

type gotoNodeMsg struct {
	id uint64
}

type panToSelectionMsg struct {
	ids []uint64
}

type fitViewMsg struct{}

type saveViewMsg struct {
	name string
}

type clearSelectionMsg struct{}

type toggleEdgesMsg struct{}

type subgraphTaskMsg struct {
	handle *work.Handle[subgraphResult]
}

type overlayTaskMsg struct {
	handle *work.Handle[overlayResult]
}

type noteMsg struct {
	text  string
	isErr bool
}

func (gotoNodeMsg) isAppMsg()       {}
func (panToSelectionMsg) isAppMsg() {}
func (fitViewMsg) isAppMsg()        {}
func (saveViewMsg) isAppMsg()       {}
func (clearSelectionMsg) isAppMsg() {}
func (toggleEdgesMsg) isAppMsg()    {}
func (subgraphTaskMsg) isAppMsg()   {}
func (overlayTaskMsg) isAppMsg()    {}
func (noteMsg) isAppMsg()           {}

// subgraphResult is what the subgraph export task produces.
type subgraphResult struct {
	gfaText string
	nodes   int
}

// overlayResult is what the path-coverage overlay task produces: a display
// class per node, or the reason the overlay could not be computed.
type overlayResult struct {
	classes map[uint64]uint8
	err     error
}

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type frameMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type graphLoadedMsg struct {
	path       string
	layoutPath string
	graph      *gfa.Graph
	layout     *gfa.Layout
	err        error
}

type recentFilesMsg struct {
	files []history.RecentFile
	err   error
}

type savedViewsMsg struct {
	views []history.SavedView
	err   error
}

type viewSavedMsg struct {
	name string
	err  error
}

type viewDeletedMsg struct {
	err error
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		if err == nil {
			return statusMsg{}
		}
		return statusMsg{text: err.Error(), isErr: true}
	}
}
