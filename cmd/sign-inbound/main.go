// Command sign-inbound plays the TSS relay for local testing. It signs an
// inbound message (or an outbound confirmation with -confirm) and prints
// the JSON body to POST to the bridge node.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/services"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/verifier"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func main() {
	var (
		keyHex      = flag.String("key", os.Getenv("TSS_PRIVATE_KEY"), "TSS secp256k1 private key (hex)")
		homeChain   = flag.Uint64("home-chain", 7565164, "Chain id of the receiving bridge deployment")
		confirm     = flag.Bool("confirm", false, "Sign an outbound confirmation instead of an inbound message")
		originChain = flag.Uint64("origin-chain", 1, "Origin chain id")
		txHash      = flag.String("tx-hash", "", "Origin transaction hash (0x hex)")
		nonce       = flag.Uint64("nonce", 0, "Message or transfer nonce")
		recipient   = flag.String("recipient", "", "Base58 recipient on the home chain")
		mint        = flag.String("mint", "", "Base58 mint (returning NFT, or the transferred NFT with -confirm)")
		owner       = flag.String("owner", "", "Original owner on the origin chain (0x hex)")
		uri         = flag.String("uri", "", "Metadata URI")
		name        = flag.String("name", "", "NFT name")
		symbol      = flag.String("symbol", "", "NFT symbol")
		destChain   = flag.Uint64("dest-chain", 0, "Destination chain id of the confirmed transfer")
		destRcpt    = flag.String("dest-recipient", "", "Destination recipient bytes of the confirmed transfer (0x hex)")
	)
	flag.Parse()

	if *keyHex == "" {
		log.Fatal("-key or TSS_PRIVATE_KEY is required")
	}
	signer, err := verifier.SignerFromHex(*keyHex)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stderr, "TSS address: %s\n", signer.Address().Hex())

	var body interface{}
	if *confirm {
		body, err = signConfirmation(signer, *homeChain, *mint, *nonce, *destChain, *destRcpt)
	} else {
		body, err = signInbound(signer, *homeChain, inboundFlags{
			originChain: *originChain,
			txHash:      *txHash,
			nonce:       *nonce,
			recipient:   *recipient,
			mint:        *mint,
			owner:       *owner,
			uri:         *uri,
			name:        *name,
			symbol:      *symbol,
		})
	}
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		log.Fatal(err)
	}
}

type inboundFlags struct {
	originChain uint64
	txHash      string
	nonce       uint64
	recipient   string
	mint        string
	owner       string
	uri         string
	name        string
	symbol      string
}

func signInbound(signer *verifier.Signer, homeChain uint64, f inboundFlags) (*types.ReceiveRequest, error) {
	txHash, err := hexutil.Decode(f.txHash)
	if err != nil {
		return nil, fmt.Errorf("tx-hash: %w", err)
	}
	owner, err := hexutil.Decode(f.owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	recipient, err := ledger.ParseAddress(f.recipient)
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	var mint ledger.Address
	if f.mint != "" {
		if mint, err = ledger.ParseAddress(f.mint); err != nil {
			return nil, fmt.Errorf("mint: %w", err)
		}
	}

	params := services.ReceiveParams{
		OriginChainID: f.originChain,
		OriginTxHash:  txHash,
		URI:           f.uri,
		Name:          f.name,
		Symbol:        f.symbol,
		OriginalOwner: owner,
		Recipient:     recipient,
		Mint:          mint,
		Nonce:         f.nonce,
	}
	sig, err := signer.Sign(params.Message(homeChain).Hash())
	if err != nil {
		return nil, err
	}
	return &types.ReceiveRequest{
		OriginChainID: f.originChain,
		OriginTxHash:  hexutil.Encode(txHash),
		URI:           f.uri,
		Name:          f.name,
		Symbol:        f.symbol,
		OriginalOwner: hexutil.Encode(owner),
		Recipient:     recipient.String(),
		Mint:          f.mint,
		Signature:     hexutil.Encode(sig),
		Nonce:         f.nonce,
	}, nil
}

func signConfirmation(signer *verifier.Signer, homeChain uint64, mintText string, nonce, destChain uint64, destRecipient string) (*types.ConfirmRequest, error) {
	mint, err := ledger.ParseAddress(mintText)
	if err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	rcpt, err := hexutil.Decode(destRecipient)
	if err != nil {
		return nil, fmt.Errorf("dest-recipient: %w", err)
	}
	msg := verifier.ConfirmationMessage{
		HomeChainID:        homeChain,
		Mint:               mint,
		Nonce:              nonce,
		DestinationChainID: destChain,
		Recipient:          rcpt,
	}
	sig, err := signer.Sign(msg.Hash())
	if err != nil {
		return nil, err
	}
	return &types.ConfirmRequest{Signature: hexutil.Encode(sig)}, nil
}
