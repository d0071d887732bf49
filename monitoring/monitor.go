// Package monitoring serves a running countdown over HTTP: the hosting
// document itself, plus a small API to inspect and control the engine.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/basp-group/basplib-redirect/countdown"
	"github.com/basp-group/basplib-redirect/page"
	"github.com/basp-group/basplib-redirect/sim/timing"
)

// Monitor turns a countdown run into a web server. The page at / is the
// hosting document; once the document has navigated, / redirects the browser
// to the new location.
type Monitor struct {
	engine         timing.Engine
	document       *page.Document
	countdowns     []*countdown.Controller
	portNumber     int
	refreshSeconds int
	profileLength  time.Duration

	serverLock sync.Mutex
	server     *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		refreshSeconds: 1,
		profileLength:  time.Second,
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		if portNumber != 0 {
			fmt.Fprintf(os.Stderr,
				"Port number %d is assigned to the monitoring server, "+
					"which is not allowed. Using a random port instead.\n",
				portNumber)
		}

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithRefreshSeconds sets how often the served page reloads itself.
func (m *Monitor) WithRefreshSeconds(seconds int) *Monitor {
	m.refreshSeconds = seconds
	return m
}

// RegisterEngine registers the engine that delivers the ticks.
func (m *Monitor) RegisterEngine(e timing.Engine) {
	m.engine = e
}

// RegisterDocument registers the document served at /.
func (m *Monitor) RegisterDocument(d *page.Document) {
	m.document = d
}

// RegisterCountdown registers a countdown to be monitored.
func (m *Monitor) RegisterCountdown(c *countdown.Controller) {
	m.countdowns = append(m.countdowns, c)
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine).Methods(http.MethodPost)
	r.HandleFunc("/api/continue", m.continueEngine).Methods(http.MethodPost)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/countdown", m.listCountdowns)
	r.HandleFunc("/api/countdown/{name}", m.countdownStatus)
	r.HandleFunc("/api/document", m.documentStatus)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/", m.serveDocument)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring countdown with %s\n", url)

	server := &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	m.serverLock.Lock()
	m.server = server
	m.serverLock.Unlock()

	go func() {
		err := server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	return url, nil
}

// StopServer shuts the web server down.
func (m *Monitor) StopServer(ctx context.Context) error {
	m.serverLock.Lock()
	server := m.server
	m.server = nil
	m.serverLock.Unlock()

	if server == nil {
		return nil
	}

	return server.Shutdown(ctx)
}

func (m *Monitor) serveDocument(w http.ResponseWriter, r *http.Request) {
	if m.document == nil {
		http.NotFound(w, r)
		return
	}

	if m.document.Navigated() {
		http.Redirect(w, r, m.document.Location(), http.StatusFound)
		return
	}

	buf := new(bytes.Buffer)
	err := m.document.Render(buf, m.refreshSeconds)
	dieOnErr(err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusNoContent)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusNoContent)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.Now()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.countdowns))
	for _, c := range m.countdowns {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	component := m.findCountdownOr404(w, mux.Vars(r)["name"])
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type countdownRsp struct {
	Name        string          `json:"name"`
	State       countdown.State `json:"state"`
	Remaining   int             `json:"remaining"`
	Ticks       int             `json:"ticks"`
	Text        string          `json:"text"`
	Destination string          `json:"destination"`
}

func statusOf(c *countdown.Controller) countdownRsp {
	return countdownRsp{
		Name:        c.Name(),
		State:       c.State(),
		Remaining:   c.Remaining(),
		Ticks:       c.Ticks(),
		Text:        c.Text(),
		Destination: c.Destination(),
	}
}

func (m *Monitor) listCountdowns(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]countdownRsp, 0, len(m.countdowns))
	for _, c := range m.countdowns {
		rsp = append(rsp, statusOf(c))
	}

	writeJSON(w, rsp)
}

func (m *Monitor) countdownStatus(w http.ResponseWriter, r *http.Request) {
	c := m.findCountdownOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	writeJSON(w, statusOf(c))
}

type documentRsp struct {
	Title     string            `json:"title"`
	Location  string            `json:"location"`
	Navigated bool              `json:"navigated"`
	Elements  map[string]string `json:"elements"`
}

func (m *Monitor) documentStatus(w http.ResponseWriter, r *http.Request) {
	if m.document == nil {
		http.NotFound(w, r)
		return
	}

	rsp := documentRsp{
		Title:     m.document.Title(),
		Location:  m.document.Location(),
		Navigated: m.document.Navigated(),
		Elements:  map[string]string{},
	}

	for _, e := range m.document.Elements() {
		rsp.Elements[e.ID()] = e.Text()
	}

	writeJSON(w, rsp)
}

func (m *Monitor) findCountdownOr404(
	w http.ResponseWriter,
	name string,
) *countdown.Controller {
	for _, c := range m.countdowns {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Component not found"))
	dieOnErr(err)

	return nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileLength)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
