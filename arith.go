package num

import (
	"math/bits"
)

// mul64to128 returns the full 128-bit product of u and v, built from 32-bit
// partial products (Warren, Hacker's Delight, 8-2 mulhu).
func mul64to128(u, v uint64) (hi, lo uint64) {
	var (
		u1 = (u & 0xffffffff)
		v1 = (v & 0xffffffff)
		t  = (u1 * v1)
		w3 = (t & 0xffffffff)
		k  = (t >> 32)
	)

	u >>= 32
	t = (u * v1) + k
	k = (t & 0xffffffff)
	var w1 = (t >> 32)

	v >>= 32
	t = (u1 * v) + k
	k = (t >> 32)

	return (u * v) + w1 + k,
		(t << 32) + w3
}

// digits splits u into four little-endian 32-bit digits.
func (u U128) digits() (d [4]uint32) {
	d[0] = uint32(u.lo)
	d[1] = uint32(u.lo >> 32)
	d[2] = uint32(u.hi)
	d[3] = uint32(u.hi >> 32)
	return d
}

func u128FromDigits(d [4]uint32) U128 {
	return U128{
		hi: uint64(d[3])<<32 | uint64(d[2]),
		lo: uint64(d[1])<<32 | uint64(d[0]),
	}
}

// quoRemSmall divides u by a single 32-bit digit. When the top digit of u is
// empty only three digits are walked.
func quoRemSmall(u U128, v uint32) (q U128, r uint32) {
	d := u.digits()
	n := 4
	if d[3] == 0 {
		n = 3
	}

	var qd [4]uint32
	var rem uint64
	by := uint64(v)
	for i := n - 1; i >= 0; i-- {
		cur := rem<<32 | uint64(d[i])
		qd[i] = uint32(cur / by)
		rem = cur % by
	}
	return u128FromDigits(qd), uint32(rem)
}

// remSmall is quoRemSmall without the quotient.
func remSmall(u U128, v uint32) uint32 {
	d := u.digits()
	n := 4
	if d[3] == 0 {
		n = 3
	}

	var rem uint64
	by := uint64(v)
	for i := n - 1; i >= 0; i-- {
		rem = (rem<<32 | uint64(d[i])) % by
	}
	return uint32(rem)
}

// knuthDiv is Knuth's Algorithm D (TAOCP vol. 2, 4.3.1) over 32-bit digits,
// following Warren's divmnu. v must be non-zero and u >= v. If q is nil only
// the remainder is produced.
//
// Both operands are normalized so the divisor's top digit has its high bit
// set; the dividend gains a guard digit to absorb the shift. Each trial
// quotient digit is estimated from the top two dividend digits, corrected at
// most twice against the divisor's second digit, and fixed up with a single
// add-back if the multiply-subtract still borrows.
func knuthDiv(u, v U128, q *[4]uint32) (r U128) {
	const b = 1 << 32

	vd, ud := v.digits(), u.digits()

	n := 4
	for vd[n-1] == 0 {
		n--
	}
	m := 4
	for ud[m-1] == 0 {
		m--
	}

	s := uint(bits.LeadingZeros32(vd[n-1]))

	var vn [4]uint32
	for i := n - 1; i > 0; i-- {
		vn[i] = vd[i]<<s | vd[i-1]>>(32-s)
	}
	vn[0] = vd[0] << s

	var un [5]uint32
	un[m] = ud[m-1] >> (32 - s)
	for i := m - 1; i > 0; i-- {
		un[i] = ud[i]<<s | ud[i-1]>>(32-s)
	}
	un[0] = ud[0] << s

	vTop := uint64(vn[n-1])

	for j := m - n; j >= 0; j-- {
		num := uint64(un[j+n])<<32 | uint64(un[j+n-1])

		var qhat, rhat uint64
		if uint64(un[j+n]) == vTop {
			qhat = b - 1
			rhat = num - qhat*vTop
		} else {
			qhat = num / vTop
			rhat = num % vTop
		}

		if n > 1 {
			for rhat < b && qhat*uint64(vn[n-2]) > (rhat<<32|uint64(un[j+n-2])) {
				qhat--
				rhat += vTop
			}
		}

		// Multiply and subtract; k carries the signed borrow.
		var k int64
		for i := 0; i < n; i++ {
			p := qhat * uint64(vn[i])
			t := int64(un[i+j]) - k - int64(p&0xffffffff)
			un[i+j] = uint32(t)
			k = int64(p>>32) - (t >> 32)
		}
		t := int64(un[j+n]) - k
		un[j+n] = uint32(t)

		if t < 0 {
			qhat--
			var c uint64
			for i := 0; i < n; i++ {
				sum := uint64(un[i+j]) + uint64(vn[i]) + c
				un[i+j] = uint32(sum)
				c = sum >> 32
			}
			un[j+n] += uint32(c)
		}

		if q != nil {
			q[j] = uint32(qhat)
		}
	}

	var rd [4]uint32
	for i := 0; i < n; i++ {
		rd[i] = un[i]>>s | un[i+1]<<(32-s)
	}
	return u128FromDigits(rd)
}

func quoRemKnuth(u, v U128) (q, r U128) {
	var qd [4]uint32
	r = knuthDiv(u, v, &qd)
	return u128FromDigits(qd), r
}
