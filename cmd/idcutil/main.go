// Package main is idcutil, a small offline toolbox for transactions and amounts.
//
// Usage:
//
//	idcutil decodetx --hex <raw transaction>
//	idcutil formatmoney --amount <subunits> [--plus]
//	idcutil parsemoney --value <decimal> [--allow-negative]
//	idcutil fee --size <bytes> [--rate <subunits per kB>]
package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/idc-chain/idcnode/chaincfg"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/services/validator"
	"github.com/idc-chain/idcnode/settings"
	"github.com/idc-chain/idcnode/ulogger"
	"github.com/urfave/cli/v2"
)

func main() {
	tSettings := settings.NewSettings()

	if err := newApp(ulogger.New("idcutil", ulogger.WithLevel(tSettings.LogLevel)), tSettings).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(logger ulogger.Logger, tSettings *settings.Settings) *cli.App {
	return &cli.App{
		Name:  "idcutil",
		Usage: "Decode transactions and convert amounts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "network",
				Usage: "chain parameters to check against (mainnet, testnet, regtest)",
				Value: "mainnet",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "decodetx",
				Usage: "Decode a serialized transaction and run the context free checks on it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hex", Usage: "hex encoded transaction", Required: true},
				},
				Action: func(c *cli.Context) error {
					return decodeTx(c, logger)
				},
			},
			{
				Name:  "formatmoney",
				Usage: "Print an amount in subunits as a decimal coin value",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "amount", Usage: "amount in subunits", Required: true},
					&cli.BoolFlag{Name: "plus", Usage: "prefix positive amounts with +"},
				},
				Action: formatMoney,
			},
			{
				Name:  "parsemoney",
				Usage: "Parse a decimal coin value into subunits",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "value", Usage: "decimal coin value", Required: true},
					&cli.BoolFlag{Name: "allow-negative", Usage: "accept a leading minus sign"},
				},
				Action: parseMoney,
			},
			{
				Name:  "fee",
				Usage: "Compute the fee for a transaction size at a fee rate",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Usage: "transaction size in bytes", Required: true},
					&cli.Int64Flag{
						Name:  "rate",
						Usage: "fee rate in subunits per 1000 bytes",
						Value: tSettings.Policy.MinRelayTxFeePerK,
					},
				},
				Action: fee,
			},
		},
	}
}

func decodeTx(c *cli.Context, logger ulogger.Logger) error {
	params, err := chaincfg.GetChainParams(c.String("network"))
	if err != nil {
		return err
	}

	b, err := hex.DecodeString(c.String("hex"))
	if err != nil {
		return errors.NewInvalidArgumentError("transaction is not valid hex", err)
	}

	tx, err := model.NewTransactionFromBytes(b)
	if err != nil {
		return err
	}

	logger.Debugf("decoded %d bytes into %s", len(b), tx.Hash())

	w := c.App.Writer

	fmt.Fprintf(w, "hash: %s\n", tx.Hash())
	fmt.Fprintf(w, "size: %d\n", tx.GetTotalSize())
	fmt.Fprint(w, tx.String())

	state := &validator.ValidationState{}
	if err = validator.CheckTransaction(tx, params, state); err != nil {
		logger.Debugf("check of %s failed: %v", tx.Hash(), err)
		fmt.Fprintf(w, "check: %s\n", state.GetRejectReason())

		return nil
	}

	fmt.Fprintln(w, "check: ok")

	return nil
}

func formatMoney(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, model.FormatMoney(model.Amount(c.Int64("amount")), c.Bool("plus")))

	return nil
}

func parseMoney(c *cli.Context) error {
	amount, err := model.ParseMoney(c.String("value"), c.Bool("allow-negative"))
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, int64(amount))

	return nil
}

func fee(c *cli.Context) error {
	size := c.Int("size")
	if size < 0 {
		return errors.NewInvalidArgumentError("size must not be negative, got %d", size)
	}

	rate := model.NewFeeRateFromPerK(model.Amount(c.Int64("rate")))

	fmt.Fprintf(c.App.Writer, "%d (%s)\n", int64(rate.GetFee(size)), rate)

	return nil
}
