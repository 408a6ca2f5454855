// Copyright 2024 The Flinux Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package abi

import (
	"log"
	"syscall"

	"github.com/thirdpartystuff/flinux/lx"
)

// Host socket error codes, in ws2_32.dll's own numbering (the values
// golang.org/x/sys/windows exposes as windows.WSAE*). Named locally so
// this table carries no platform import and builds everywhere; on Windows
// these arrive wrapped in a syscall.Errno, which TranslateErrno unwraps.
const (
	hostEINTR           = 10004
	hostEBADF           = 10009
	hostEACCES          = 10013
	hostEFAULT          = 10014
	hostEINVAL          = 10022
	hostEMFILE          = 10024
	hostEWOULDBLOCK     = 10035
	hostEINPROGRESS     = 10036
	hostEALREADY        = 10037
	hostENOTSOCK        = 10038
	hostEDESTADDRREQ    = 10039
	hostEMSGSIZE        = 10040
	hostEPROTOTYPE      = 10041
	hostENOPROTOOPT     = 10042
	hostEPROTONOSUPPORT = 10043
	hostEOPNOTSUPP      = 10045
	hostEAFNOSUPPORT    = 10047
	hostEADDRINUSE      = 10048
	hostEADDRNOTAVAIL   = 10049
	hostENETDOWN        = 10050
	hostENETUNREACH     = 10051
	hostENETRESET       = 10052
	hostECONNABORTED    = 10053
	hostECONNRESET      = 10054
	hostENOBUFS         = 10055
	hostEISCONN         = 10056
	hostENOTCONN        = 10057
	hostESHUTDOWN       = 10058
	hostETIMEDOUT       = 10060
	hostECONNREFUSED    = 10061
	hostEHOSTDOWN       = 10064
	hostEHOSTUNREACH    = 10065
)

// errnoTable is the dense host-kind -> Linux errno mapping.
// ErrnoTest.RecognizedKindsMapAsDocumented checks a representative subset
// of these entries (Testable Property 1).
var errnoTable = map[int]lx.Errno{
	hostEINTR:           lx.EINTR,
	hostEBADF:           lx.ENOTSOCK,
	hostEACCES:          lx.EPERM,
	hostEFAULT:          lx.EFAULT,
	hostEINVAL:          lx.EINVAL,
	hostEMFILE:          lx.ENFILE,
	hostEWOULDBLOCK:     lx.EWOULDBLOCK,
	hostEINPROGRESS:     lx.EINPROGRESS,
	hostEALREADY:        lx.EALREADY,
	hostENOTSOCK:        lx.ENOTSOCK,
	hostEDESTADDRREQ:    lx.EDESTADDRREQ,
	hostEMSGSIZE:        lx.EMSGSIZE,
	hostEPROTOTYPE:      lx.EPROTOTYPE,
	hostENOPROTOOPT:     lx.ENOPROTOOPT,
	hostEPROTONOSUPPORT: lx.EPROTONOSUPPORT,
	hostEOPNOTSUPP:      lx.ENOTSOCK,
	hostEAFNOSUPPORT:    lx.EAFNOSUPPORT,
	hostEADDRINUSE:      lx.EADDRINUSE,
	hostEADDRNOTAVAIL:   lx.EADDRNOTAVAIL,
	hostENETDOWN:        lx.ENETDOWN,
	hostENETUNREACH:     lx.ENETUNREACH,
	hostENETRESET:       lx.ENETRESET,
	hostECONNABORTED:    lx.ECONNABORTED,
	hostECONNRESET:      lx.ECONNRESET,
	hostENOBUFS:         lx.ENOBUFS,
	hostEISCONN:         lx.EISCONN,
	hostENOTCONN:        lx.ENOTCONN,
	hostESHUTDOWN:       lx.ESHUTDOWN,
	hostETIMEDOUT:       lx.ETIMEDOUT,
	hostECONNREFUSED:    lx.ECONNREFUSED,
	// HOSTDOWN is deliberately mapped to ETIMEDOUT, not EHOSTDOWN, to
	// match observed Linux behavior for a peer that has gone dark.
	hostEHOSTDOWN:    lx.ETIMEDOUT,
	hostEHOSTUNREACH: lx.EHOSTUNREACH,
}

// TranslateErrno maps a host socket error to its Linux equivalent.
// Unknown host error kinds collapse to EIO and are logged through
// errorLogger, if non-nil.
func TranslateErrno(err error, errorLogger *log.Logger) lx.Errno {
	if err == nil {
		return 0
	}
	if errno, ok := err.(lx.Errno); ok {
		return errno
	}

	sysErrno, ok := err.(syscall.Errno)
	if !ok {
		if errorLogger != nil {
			errorLogger.Printf("abi: unrecognized host error %v (%T), mapping to EIO", err, err)
		}
		return lx.EIO
	}

	if mapped, ok := errnoTable[int(sysErrno)]; ok {
		return mapped
	}
	if errorLogger != nil {
		errorLogger.Printf("abi: unmapped host error code %d, mapping to EIO", int(sysErrno))
	}
	return lx.EIO
}
