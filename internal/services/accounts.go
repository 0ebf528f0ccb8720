package services

import (
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
)

// Seeds of every account the bridge stores.
var (
	seedProgramConfig = []byte("program_config")
	seedLocalMint     = []byte("nft_mint")
	seedInboundMint   = []byte("nft_mint_inbound")
	seedNftMetadata   = []byte("nft_metadata")
	seedTransfer      = []byte("cross_chain_transfer")
	seedReceipt       = []byte("cross_chain_receipt")
)

// ConfigAddress the singleton ProgramConfig account.
func ConfigAddress(programID ledger.Address) ledger.Address {
	return ledger.Derive(programID, seedProgramConfig)
}

// LocalMintAddress mint id of the seq-th NFT minted on the home chain.
func LocalMintAddress(programID ledger.Address, seq uint64) ledger.Address {
	return ledger.Derive(programID, seedLocalMint, ledger.U64Seed(seq))
}

// InboundMintAddress mint id of an NFT first seen through an inbound
// message. Bound to the receipt, so it is unique per (origin tx, nonce).
func InboundMintAddress(programID, receipt ledger.Address) ledger.Address {
	return ledger.Derive(programID, seedInboundMint, receipt[:])
}

func NftAddress(programID, mint ledger.Address) ledger.Address {
	return ledger.Derive(programID, seedNftMetadata, mint[:])
}

func TransferAddress(programID, mint ledger.Address, nonce uint64) ledger.Address {
	return ledger.Derive(programID, seedTransfer, mint[:], ledger.U64Seed(nonce))
}

// ReceiptAddress replay key of an inbound message. It is global: the same
// (origin tx hash, nonce) can be applied once regardless of NFT or chain.
func ReceiptAddress(programID ledger.Address, originTxHash []byte, nonce uint64) ledger.Address {
	return ledger.Derive(programID, seedReceipt, originTxHash, ledger.U64Seed(nonce))
}
