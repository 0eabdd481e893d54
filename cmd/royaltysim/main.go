// Command royaltysim runs an end-to-end royalty enforcement flow against
// an in-memory ledger: it derives a cast of accounts from a seed, mints a
// clawback-controlled asset, sets a royalty policy, places an offer, and
// executes a royalty-enforced sale — then shows a stale second attempt
// being rejected.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/openroyalty/libroyalty-go/config"
	"github.com/openroyalty/libroyalty-go/enforcer"
	"github.com/openroyalty/libroyalty-go/ledger"
	"github.com/openroyalty/libroyalty-go/state"
)

var (
	configFile string
	seed       string
	basis      uint64
	payment    uint64
	offered    uint64
	funding    uint64
	statedir   string
)

func main() {
	app := cli.NewApp()
	app.Name = "royaltysim"
	app.Usage = "simulate a royalty-enforced asset sale"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Value:       "",
			Usage:       "configuration file",
			Destination: &configFile,
		},
		cli.StringFlag{
			Name:        "seed, s",
			Value:       "royaltysim demo seed",
			Usage:       "seed for deterministic account identities",
			Destination: &seed,
		},
		cli.Uint64Flag{
			Name:        "basis, b",
			Value:       500,
			Usage:       "royalty rate in basis points",
			Destination: &basis,
		},
		cli.Uint64Flag{
			Name:        "payment, p",
			Value:       1_000_000,
			Usage:       "sale price in native currency units",
			Destination: &payment,
		},
		cli.Uint64Flag{
			Name:        "offered, o",
			Value:       3,
			Usage:       "units of the asset placed on offer",
			Destination: &offered,
		},
		cli.StringFlag{
			Name:        "statedir",
			Value:       "",
			Usage:       "persist engine state in a bolt db under this directory (default: in-memory)",
			Destination: &statedir,
		},
	}
	app.Action = func(c *cli.Context) error {
		if err := applyConfig(); err != nil {
			return err
		}
		funding = 2 * payment
		return simulate()
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// applyConfig layers the optional config file and environment overrides
// under the command-line flags: file values fill in the custody seed and
// state directory only where no flag was given.
func applyConfig() error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := config.FromEnv(&cfg); err != nil {
		return err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	if cfg.CustodySeed != "" && seed == "royaltysim demo seed" {
		seed = cfg.CustodySeed
	}
	if statedir == "" && cfg.StateBackend == "bolt" && configFile != "" {
		statedir = cfg.DataDir
	}
	return nil
}

func simulate() error {
	accounts, err := deriveAccounts([]byte(seed))
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	host := ledger.NewMock()
	host.Fund(accounts.buyer, funding)

	asset := host.CreateAsset(ledger.AssetParams{
		Creator:  accounts.seller,
		Clawback: accounts.custody,
		Total:    10,
		UnitName: "ART",
		URL:      "ipfs://bafkreibtpdn4ilchgqjv4kjtcetrahn6cyf7jjagspzjse73rkevobrceu#arc3",
	})
	// Buyer opens a holding so the release can land.
	host.SetBalance(accounts.buyer, asset, 0)

	enf, err := enforcer.New(store, host, accounts.custody, accounts.admin)
	if errors.Is(err, enforcer.ErrAlreadyInitialized) {
		// Persistent state dir from a previous run.
		enf, err = enforcer.Open(store, host, accounts.custody)
	}
	if err != nil {
		return err
	}

	fmt.Printf("administrator  %s\n", accounts.admin.Short())
	fmt.Printf("custody        %s\n", accounts.custody.Short())
	fmt.Printf("seller         %s\n", accounts.seller.Short())
	fmt.Printf("buyer          %s\n", accounts.buyer.Short())
	fmt.Printf("collector      %s\n\n", accounts.collector.Short())

	switch err := enf.SetPolicy(accounts.admin, basis, accounts.collector); {
	case errors.Is(err, state.ErrPolicyAlreadySet):
		fmt.Println("policy already set (write-once), keeping existing terms")
	case err != nil:
		return err
	default:
		fmt.Printf("policy set: %d bp to %s\n", basis, accounts.collector.Short())
	}

	if err := enf.Offer(accounts.seller, asset, offered, accounts.buyer); err != nil {
		return err
	}
	fmt.Printf("offer placed: %d units of asset %d, counterparty %s\n\n", offered, asset, accounts.buyer.Short())

	req := enforcer.TransferRequest{
		RoyaltyAsset:        asset,
		Amount:              1,
		Owner:               accounts.seller,
		Recipient:           accounts.buyer,
		RoyaltyRecipient:    accounts.collector,
		ExpectedOfferAmount: offered,
	}
	bundle := ledger.NewTransferBundle(ledger.PaymentLeg{
		Sender:   accounts.buyer,
		Receiver: accounts.custody,
		Amount:   payment,
	})
	if err := enf.TransferWithCurrency(accounts.buyer, req, bundle); err != nil {
		return err
	}

	fmt.Printf("sale of 1 unit for %d committed\n", payment)
	printBalance(host, "seller", accounts.seller)
	printBalance(host, "collector", accounts.collector)
	printBalance(host, "buyer", accounts.buyer)

	offer, err := enf.GetOffer(accounts.seller, asset)
	if err != nil {
		return err
	}
	fmt.Printf("offer remaining: %d units\n\n", offer.Amount)

	// A second attempt against the consumed view must abort.
	err = enf.TransferWithCurrency(accounts.buyer, req, bundle)
	if errors.Is(err, enforcer.ErrStaleOffer) || errors.Is(err, enforcer.ErrAmountExceedsOffer) {
		fmt.Printf("stale retry rejected: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	return errors.New("royaltysim: stale retry unexpectedly committed")
}

type accounts struct {
	admin, custody, seller, buyer, collector ledger.Identity
}

func deriveAccounts(seed []byte) (accounts, error) {
	var a accounts
	var err error
	for _, acct := range []struct {
		label string
		id    *ledger.Identity
	}{
		{"admin", &a.admin},
		{"custody", &a.custody},
		{"seller", &a.seller},
		{"buyer", &a.buyer},
		{"collector", &a.collector},
	} {
		if *acct.id, err = ledger.DeriveIdentity(seed, acct.label); err != nil {
			return a, err
		}
	}
	return a, nil
}

func openStore() (state.Store, error) {
	if statedir == "" {
		return state.NewMemStore(), nil
	}
	return state.OpenBoltStore(statedir + "/royaltysim.db")
}

func printBalance(host *ledger.Mock, name string, account ledger.Identity) {
	bal, err := host.Balance(account, ledger.NativeCurrency)
	if err != nil {
		return
	}
	fmt.Printf("  %-10s %d\n", name, bal)
}
