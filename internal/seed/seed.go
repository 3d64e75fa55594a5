// Package seed loads demo marketplace data from a YAML fixture.
//
// Records refer to each other by natural keys: applications name their
// borrower by username and their lender by company name, so fixtures stay
// readable and independent of generated ids.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lendflow/internal/auth"
	"lendflow/internal/lending"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

//go:embed default.yaml
var defaultFixture []byte

const dateLayout = "2006-01-02"

// Fixture is the top-level YAML document.
type Fixture struct {
	Users        []User          `yaml:"users"`
	Lenders      []Lender        `yaml:"lenders"`
	Rules        []Rule          `yaml:"rules"`
	Applications []Application   `yaml:"applications"`
	Settings     *model.Settings `yaml:"settings,omitempty"`
}

// User is an account with a plaintext password.
type User struct {
	Username         string  `yaml:"username"`
	Password         string  `yaml:"password"`
	Email            string  `yaml:"email"`
	Role             string  `yaml:"role"`
	FirstName        string  `yaml:"firstName"`
	LastName         string  `yaml:"lastName"`
	Phone            string  `yaml:"phone"`
	Company          string  `yaml:"company"`
	DateOfBirth      string  `yaml:"dateOfBirth"`
	City             string  `yaml:"city"`
	MonthlyIncome    float64 `yaml:"monthlyIncome"`
	CreditScore      int     `yaml:"creditScore"`
	EmploymentStatus string  `yaml:"employmentStatus"`
	Disabled         bool    `yaml:"disabled"`
}

// Lender is a lender profile owned by the LENDER user Owner.
type Lender struct {
	Owner            string          `yaml:"owner"`
	CompanyName      string          `yaml:"companyName"`
	LendingLicense   string          `yaml:"lendingLicense"`
	MinLoanAmount    float64         `yaml:"minLoanAmount"`
	MaxLoanAmount    float64         `yaml:"maxLoanAmount"`
	MinCreditScore   int             `yaml:"minCreditScore"`
	MinMonthlyIncome float64         `yaml:"minMonthlyIncome"`
	MinAge           int             `yaml:"minAge"`
	MaxAge           int             `yaml:"maxAge"`
	InterestRate     model.RateRange `yaml:"interestRate"`
	LoanTerms        []int           `yaml:"loanTerms"`
	Specializations  []string        `yaml:"specializations"`
	Disabled         bool            `yaml:"disabled"`
}

// Rule belongs to the lender with company name Lender.
type Rule struct {
	Lender           string   `yaml:"lender"`
	RuleName         string   `yaml:"ruleName"`
	MinMonthlyIncome float64  `yaml:"minMonthlyIncome"`
	MinLoanAmount    float64  `yaml:"minLoanAmount"`
	MaxLoanAmount    float64  `yaml:"maxLoanAmount"`
	MinCreditScore   int      `yaml:"minCreditScore"`
	MinAge           int      `yaml:"minAge"`
	MaxAge           int      `yaml:"maxAge"`
	EmploymentTypes  []string `yaml:"employmentTypes"`
	InterestRate     float64  `yaml:"interestRate"`
	ProcessingFee    float64  `yaml:"processingFee"`
	Disabled         bool     `yaml:"disabled"`
}

// Application is a loan request. Profile values left empty are taken from
// the borrower's account. Rule, when set, names a rule of the same lender
// whose rate and fee price the loan.
type Application struct {
	Borrower         string  `yaml:"borrower"`
	Lender           string  `yaml:"lender"`
	Rule             string  `yaml:"rule"`
	RequestedAmount  float64 `yaml:"requestedAmount"`
	LoanPurpose      string  `yaml:"loanPurpose"`
	LoanTerm         int     `yaml:"loanTerm"`
	InterestRate     float64 `yaml:"interestRate"`
	Status           string  `yaml:"status"`
	MonthlyIncome    float64 `yaml:"monthlyIncome"`
	CreditScore      int     `yaml:"creditScore"`
	EmploymentStatus string  `yaml:"employmentStatus"`
	Comments         string  `yaml:"comments"`
	DecisionBy       string  `yaml:"decisionBy"`
	CreatedAt        string  `yaml:"createdAt"`
}

// Result counts the inserted records.
type Result struct {
	Users        int `json:"users"`
	Lenders      int `json:"lenders"`
	Rules        int `json:"rules"`
	Applications int `json:"applications"`
}

// Parse decodes a fixture, rejecting unknown keys.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}
	return &f, nil
}

// ParseFile reads and decodes the fixture at path.
func ParseFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed fixture: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Default returns the built-in demo fixture.
func Default() *Fixture {
	f, err := Parse(bytes.NewReader(defaultFixture))
	if err != nil {
		panic(err)
	}
	return f
}

// Loader inserts fixtures through a repository set.
type Loader struct {
	repos      repository.Set
	bcryptCost int
	now        func() time.Time
}

// NewLoader returns a Loader. A nil now uses time.Now.
func NewLoader(repos repository.Set, bcryptCost int, now func() time.Time) *Loader {
	if now == nil {
		now = time.Now
	}
	return &Loader{repos: repos, bcryptCost: bcryptCost, now: now}
}

// Load inserts users, lenders, rules, applications and settings in that order.
// It stops at the first failure; records inserted before it are kept.
func (l *Loader) Load(ctx context.Context, f *Fixture) (*Result, error) {
	st := &state{
		users:   map[string]*model.User{},
		lenders: map[string]*model.Lender{},
		rules:   map[string]*model.LenderRule{},
	}
	res := &Result{}

	for _, u := range f.Users {
		if err := l.user(ctx, st, u); err != nil {
			return res, fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		res.Users++
	}
	for _, ld := range f.Lenders {
		if err := l.lender(ctx, st, ld); err != nil {
			return res, fmt.Errorf("seed lender %q: %w", ld.CompanyName, err)
		}
		res.Lenders++
	}
	for _, r := range f.Rules {
		if err := l.rule(ctx, st, r); err != nil {
			return res, fmt.Errorf("seed rule %q: %w", r.RuleName, err)
		}
		res.Rules++
	}
	for i, a := range f.Applications {
		if err := l.application(ctx, st, a); err != nil {
			return res, fmt.Errorf("seed application #%d: %w", i+1, err)
		}
		res.Applications++
	}
	if f.Settings != nil {
		s := *f.Settings
		s.UpdatedAt = l.now()
		if _, err := l.repos.Settings.Save(ctx, s); err != nil {
			return res, fmt.Errorf("seed settings: %w", err)
		}
	}
	return res, nil
}

type state struct {
	users   map[string]*model.User
	lenders map[string]*model.Lender
	rules   map[string]*model.LenderRule
}

func key(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (l *Loader) user(ctx context.Context, st *state, in User) error {
	role, ok := model.ParseRole(in.Role)
	if in.Role == "" {
		role, ok = model.RoleBorrower, true
	}
	if !ok {
		return fmt.Errorf("unknown role %q", in.Role)
	}
	if in.Password == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := auth.HashPassword(in.Password, l.bcryptCost)
	if err != nil {
		return err
	}
	now := l.now()
	u := &model.User{
		Username:         in.Username,
		Email:            in.Email,
		PasswordHash:     hash,
		Role:             role,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		Company:          in.Company,
		City:             in.City,
		MonthlyIncome:    in.MonthlyIncome,
		CreditScore:      in.CreditScore,
		EmploymentStatus: in.EmploymentStatus,
		IsActive:         !in.Disabled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, in.DateOfBirth)
		if err != nil {
			return fmt.Errorf("dateOfBirth: %w", err)
		}
		u.DateOfBirth = &dob
	}
	out, err := l.repos.Users.Create(ctx, u)
	if err != nil {
		return err
	}
	st.users[key(out.Username)] = out
	return nil
}

func (l *Loader) lender(ctx context.Context, st *state, in Lender) error {
	owner, ok := st.users[key(in.Owner)]
	if !ok {
		return fmt.Errorf("unknown owner %q", in.Owner)
	}
	if owner.Role != model.RoleLender {
		return fmt.Errorf("owner %q is not a lender", in.Owner)
	}
	now := l.now()
	out, err := l.repos.Lenders.Create(ctx, &model.Lender{
		UserID:            owner.ID,
		CompanyName:       in.CompanyName,
		LendingLicense:    in.LendingLicense,
		MinLoanAmount:     in.MinLoanAmount,
		MaxLoanAmount:     in.MaxLoanAmount,
		MinCreditScore:    in.MinCreditScore,
		MinMonthlyIncome:  in.MinMonthlyIncome,
		MinAge:            in.MinAge,
		MaxAge:            in.MaxAge,
		InterestRateRange: in.InterestRate,
		LoanTerms:         in.LoanTerms,
		Specializations:   in.Specializations,
		IsActive:          !in.Disabled,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return err
	}
	st.lenders[key(out.CompanyName)] = out
	return nil
}

func (l *Loader) rule(ctx context.Context, st *state, in Rule) error {
	lender, ok := st.lenders[key(in.Lender)]
	if !ok {
		return fmt.Errorf("unknown lender %q", in.Lender)
	}
	now := l.now()
	out, err := l.repos.Rules.Create(ctx, &model.LenderRule{
		LenderID:         lender.ID,
		RuleName:         in.RuleName,
		MinMonthlyIncome: in.MinMonthlyIncome,
		MinLoanAmount:    in.MinLoanAmount,
		MaxLoanAmount:    in.MaxLoanAmount,
		MinCreditScore:   in.MinCreditScore,
		MinAge:           in.MinAge,
		MaxAge:           in.MaxAge,
		EmploymentTypes:  in.EmploymentTypes,
		InterestRate:     in.InterestRate,
		ProcessingFee:    in.ProcessingFee,
		IsActive:         !in.Disabled,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return err
	}
	st.rules[key(in.Lender)+"/"+key(out.RuleName)] = out
	return nil
}

func (l *Loader) application(ctx context.Context, st *state, in Application) error {
	borrower, ok := st.users[key(in.Borrower)]
	if !ok {
		return fmt.Errorf("unknown borrower %q", in.Borrower)
	}
	if borrower.Role != model.RoleBorrower {
		return fmt.Errorf("user %q is not a borrower", in.Borrower)
	}
	lender, ok := st.lenders[key(in.Lender)]
	if !ok {
		return fmt.Errorf("unknown lender %q", in.Lender)
	}

	status := model.StatusPending
	if in.Status != "" {
		status = model.ApplicationStatus(strings.ToUpper(in.Status))
	}
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", in.Status)
	}

	createdAt := l.now()
	if in.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, in.CreatedAt)
		if err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
		createdAt = t
	}

	app := &model.LoanApplication{
		BorrowerID:       borrower.ID,
		LenderID:         lender.ID,
		RequestedAmount:  in.RequestedAmount,
		LoanAmount:       in.RequestedAmount,
		LoanPurpose:      in.LoanPurpose,
		LoanTerm:         in.LoanTerm,
		InterestRate:     lender.InterestRateRange.Min,
		Status:           status,
		MonthlyIncome:    pick(in.MonthlyIncome, borrower.MonthlyIncome),
		CreditScore:      pick(in.CreditScore, borrower.CreditScore),
		EmploymentStatus: pick(in.EmploymentStatus, borrower.EmploymentStatus),
		Comments:         in.Comments,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}

	fee := 0.0
	if in.Rule != "" {
		r, ok := st.rules[key(in.Lender)+"/"+key(in.Rule)]
		if !ok {
			return fmt.Errorf("unknown rule %q for lender %q", in.Rule, in.Lender)
		}
		app.RuleID = &r.ID
		app.InterestRate = r.InterestRate
		fee = r.ProcessingFee
	}
	if in.InterestRate > 0 {
		app.InterestRate = in.InterestRate
	}

	profile := lending.Profile{
		MonthlyIncome:    app.MonthlyIncome,
		CreditScore:      app.CreditScore,
		EmploymentStatus: app.EmploymentStatus,
	}
	if borrower.DateOfBirth != nil {
		profile.Age = lending.Age(*borrower.DateOfBirth, createdAt)
	}
	app.EligibilityScore = lending.ScoreProfile(profile).Total

	q := lending.Calculate(lending.LoanInput{
		Principal:     app.Amount(),
		AnnualRate:    app.InterestRate,
		Months:        app.LoanTerm,
		ProcessingFee: fee,
	})
	app.MonthlyEMI = q.MonthlyEMI
	app.TotalInterest = q.TotalInterest
	app.TotalAmount = q.TotalAmount

	if status.Decided() {
		decided := createdAt
		app.DecisionDate = &decided
		app.DecisionBy = in.DecisionBy
	}

	_, err := l.repos.Applications.Create(ctx, app)
	return err
}

func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
