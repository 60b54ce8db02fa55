package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/cometbft/cometbft/rpc/client/http"
	"github.com/spf13/cobra"

	"github.com/phasefund/phasefund/crypto"
	"github.com/phasefund/phasefund/tx"
)

// sendArguments are the flags every tx command shares. Nonce 0 means fetch the
// sender's current nonce from the node before signing.
type sendArguments struct {
	Url    string
	Index  uint64
	Nonce  uint64
	Skey   string
	NoSend bool
}

func sendFlags(cmd *cobra.Command, a *sendArguments) {
	urlFlag(cmd, &a.Url)
	cmd.Flags().Uint64VarP(&a.Index, "index", "i", 0, "account index")
	cmd.Flags().Uint64VarP(&a.Nonce, "nonce", "n", 0, "account nonce")
	cmd.Flags().StringVarP(&a.Skey, "skeyPath", "s", "./config/priv_validator_key.json", "private key path")
	cmd.Flags().BoolVarP(&a.NoSend, "nosend", "", false, "not send transaction but print signature")
}

// sendTx signs the payload with the file validator key and broadcasts it.
// With --nosend it stops after printing the signature so a multi-party flow
// can collect signatures offline.
func sendTx(a sendArguments, typ tx.TxType, payload any) {
	cli, err := http.New(a.Url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return
	}
	ctx := context.Background()
	gres, err := cli.Genesis(ctx)
	if err != nil {
		fmt.Printf("get chain genesis err:%v\n", err)
		return
	}
	chainId := gres.Genesis.ChainID
	nonce := a.Nonce
	if nonce == 0 {
		act, err := queryAccount(a.Url, a.Index, "")
		if err != nil {
			return
		}
		nonce = act.Nonce
	}
	btx := tx.Tx{
		Version: tx.TxVersion1,
		Type:    typ,
		Nonce:   nonce,
		Account: a.Index,
		Tx:      payload,
	}
	dat, err := btx.SigData([]byte(chainId))
	if err != nil {
		fmt.Printf("tx sign data err:%v\n", err)
		return
	}
	println("data signed:", hex.EncodeToString(dat))
	sigs := [][]byte{}
	pv := crypto.LoadFilePV(a.Skey)
	sig, err := pv.Sign(dat)
	if err != nil {
		fmt.Printf("sign tx err:%v\n", err)
		return
	}
	println("pubkey:", hex.EncodeToString(pv.PublicKey()))
	println("address:", pv.Address())
	sigs = append(sigs, sig)
	if a.NoSend {
		fmt.Println("transaction signatures:")
		for _, sig := range sigs {
			fmt.Println(hex.EncodeToString(sig))
		}
		return
	}
	btx.Sig = sigs
	dat, err = tx.MarshalTx(&btx)
	if err != nil {
		fmt.Printf("marshal tx err:%v\n", err)
		return
	}
	fmt.Printf("tx:%x btx:%#v\n", dat, btx)
	res, err := cli.BroadcastTxSync(ctx, dat)
	if err != nil {
		fmt.Printf("broadcast tx err:%v\n", err)
		return
	}
	dat, _ = json.Marshal(res)
	fmt.Printf("%v\n", string(dat))
}
