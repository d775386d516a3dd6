// Package loandetail shows one loan together with the transactions linked to it by loan id.
package loandetail
