//go:build integration

package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/web_mon/internal/audit"
	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
	"github.com/eliteGoblin/focusd/web_mon/internal/friction"
	"github.com/eliteGoblin/focusd/web_mon/internal/hosts"
	"github.com/eliteGoblin/focusd/web_mon/internal/reblock"
	"github.com/eliteGoblin/focusd/web_mon/internal/state"
	"github.com/eliteGoblin/focusd/web_mon/internal/usecase"
	"github.com/eliteGoblin/focusd/web_mon/test/fixtures"
)

// fakeSystem records OS side effects instead of performing them.
type fakeSystem struct {
	submitted []string
	delays    []time.Duration
	pending   []string
	cancelled []string
	flushes   int
}

func (f *fakeSystem) RemoveWriteProtection() error  { return nil }
func (f *fakeSystem) RestoreWriteProtection() error { return nil }

func (f *fakeSystem) FlushNameCache() error {
	f.flushes++
	return nil
}

func (f *fakeSystem) ListPendingJobs() ([]string, error) { return f.pending, nil }

func (f *fakeSystem) CancelJob(id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeSystem) SubmitJob(command string, delay time.Duration) error {
	f.submitted = append(f.submitted, command)
	f.delays = append(f.delays, delay)
	f.pending = append(f.pending, "1")
	return nil
}

var _ = Describe("Block / unblock control loop", func() {
	var (
		tmpDir string
		home   *fixtures.FakeFocusHome
		system *fakeSystem
		ctrl   *usecase.ControllerImpl
		input  string
	)

	build := func(confirm string) {
		logger := zap.NewNop()
		system = &fakeSystem{}
		ctrl = usecase.NewController(usecase.Deps{
			Hosts:    hosts.NewEditor(home.HostsPath(), logger),
			Lockdown: state.NewLockdownStore(filepath.Join(home.FocusDir(), state.LockdownFileName), logger),
			Recents:  state.NewRecentsStore(filepath.Join(home.FocusDir(), state.RecentsFileName)),
			Audit:    audit.NewFileLog(home.AuditLogPath()),
			System:   system,
			Friction: friction.NewWaiter(logger,
				friction.WithIO(io.Discard, strings.NewReader(confirm)),
				friction.WithTimer(fixtures.InstantTimer),
				friction.WithRandom(func(int) int { return 0 })),
			Reblocker: reblock.NewScheduler(system, func() (string, error) {
				return "/usr/local/bin/blk", nil
			}, nil, logger),
		}, logger)
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "blkunblk-integration-*")
		Expect(err).NotTo(HaveOccurred())

		home = fixtures.NewFakeFocusHome(tmpDir)
		Expect(home.Create()).To(Succeed())
		input = "\n"
	})

	JustBeforeEach(func() {
		build(input)
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("BlockNow", func() {
		It("activates every rejection line and leaves NEVERBLOCK lines alone", func() {
			Expect(ctrl.BlockNow(context.Background())).To(Succeed())

			content := home.Hosts()
			Expect(content).To(ContainSubstring("\n0.0.0.0 news.ycombinator.com # BLOCKME\n"))
			Expect(content).To(ContainSubstring("\n# 0.0.0.0 docs.python.org # NEVERBLOCK BLOCKME\n"))
			Expect(content).To(ContainSubstring("\n0.0.0.0 github.com # NEVERBLOCK\n"))
			Expect(home.AuditLog()).To(MatchRegexp(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}; BLOCK\n$`))
		})

		It("is idempotent on file content", func() {
			Expect(ctrl.BlockNow(context.Background())).To(Succeed())
			first := home.Hosts()
			Expect(ctrl.BlockNow(context.Background())).To(Succeed())
			Expect(home.Hosts()).To(Equal(first))
		})
	})

	Describe("GrantException", func() {
		Context("for specific domains", func() {
			It("unblocks matches, records recents and schedules the re-block", func() {
				result, err := ctrl.GrantException(context.Background(), domain.ExceptionRequest{
					Reason:          "reading thread",
					DurationMinutes: 25,
					Domains:         []string{"reddit"},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Warnings).To(BeEmpty())

				content := home.Hosts()
				Expect(content).To(ContainSubstring("# 0.0.0.0 reddit.com # BLOCKME"))
				Expect(content).To(ContainSubstring("# 0.0.0.0 www.reddit.com # BLOCKME"))
				Expect(content).To(ContainSubstring("\n0.0.0.0 news.ycombinator.com # BLOCKME\n"))

				Expect(system.submitted).To(Equal([]string{"sudo /usr/local/bin/blk"}))
				Expect(system.delays).To(Equal([]time.Duration{25 * time.Minute}))

				recents, err := os.ReadFile(filepath.Join(home.FocusDir(), state.RecentsFileName))
				Expect(err).NotTo(HaveOccurred())
				Expect(string(recents)).To(Equal("reddit\n"))

				Expect(home.AuditLog()).To(HaveSuffix("; UNBLOCK; Duration: 25 minutes; Reason: reading thread; Specific: reddit\n"))
			})

			It("is undone by the scheduled blk run", func() {
				_, err := ctrl.GrantException(context.Background(), domain.ExceptionRequest{
					Reason: "reading thread", DurationMinutes: 10, Domains: []string{"reddit"},
				})
				Expect(err).NotTo(HaveOccurred())

				// The deferred job runs blk, which is BlockNow.
				Expect(ctrl.BlockNow(context.Background())).To(Succeed())

				Expect(home.Hosts()).To(ContainSubstring("\n0.0.0.0 reddit.com # BLOCKME\n"))
				Expect(system.cancelled).To(Equal([]string{"1"}))
			})
		})

		Context("for ALL", func() {
			It("comments out every active rejection line after confirmation", func() {
				_, err := ctrl.GrantException(context.Background(), domain.ExceptionRequest{
					Reason: "deploy night", DurationMinutes: 60, All: true,
				})
				Expect(err).NotTo(HaveOccurred())

				status, err := ctrl.Status()
				Expect(err).NotTo(HaveOccurred())
				Expect(status.BlockedDomains).To(BeEmpty())
				Expect(status.UnblockedDomains).To(ConsistOf("reddit.com", "www.reddit.com", "news.ycombinator.com"))
				Expect(home.Hosts()).To(ContainSubstring("\n0.0.0.0 github.com # NEVERBLOCK\n"))
			})
		})

		Context("when the confirmation input is closed", func() {
			BeforeEach(func() {
				input = ""
			})

			It("leaves everything blocked and writes no unblock entry", func() {
				_, err := ctrl.GrantException(context.Background(), domain.ExceptionRequest{
					Reason: "deploy night", DurationMinutes: 60, All: true,
				})
				Expect(err).To(MatchError(domain.ErrUserCancelled))

				status, err := ctrl.Status()
				Expect(err).NotTo(HaveOccurred())
				Expect(status.UnblockedDomains).To(BeEmpty())
				Expect(home.AuditLog()).NotTo(ContainSubstring("UNBLOCK"))
				Expect(system.submitted).To(BeEmpty())
			})
		})

		Context("while locked down", func() {
			It("refuses and does not touch the hosts file", func() {
				_, err := ctrl.Lock(1)
				Expect(err).NotTo(HaveOccurred())
				before := home.Hosts()

				_, err = ctrl.GrantException(context.Background(), domain.ExceptionRequest{
					Reason: "reading thread", DurationMinutes: 10, Domains: []string{"reddit"},
				})

				Expect(err).To(MatchError(domain.ErrLocked))
				Expect(home.Hosts()).To(Equal(before))
			})
		})
	})
})
